package workflow

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	scheduler "github.com/TudorHulban/tardiness"
)

// WriteNames writes the execution order as a JSON list of task names.
func WriteNames(path string, graph *scheduler.Graph, order []scheduler.TaskID) error {
	data, errMarshal := json.Marshal(graph.Names(order))
	if errMarshal != nil {
		return fmt.Errorf("marshal schedule: %w", errMarshal)
	}

	return os.WriteFile(path, data, 0o644)
}

// WriteIDs writes the execution order as a single CSV row of task IDs.
func WriteIDs(path string, order []scheduler.TaskID) error {
	file, errCreate := os.Create(path)
	if errCreate != nil {
		return fmt.Errorf("create csv: %w", errCreate)
	}
	defer file.Close()

	row := make([]string, len(order))

	for ix, id := range order {
		row[ix] = strconv.Itoa(int(id))
	}

	writer := csv.NewWriter(file)

	if errWrite := writer.Write(row); errWrite != nil {
		return fmt.Errorf("write csv: %w", errWrite)
	}

	writer.Flush()

	if errFlush := writer.Error(); errFlush != nil {
		return fmt.Errorf("flush csv: %w", errFlush)
	}

	return file.Close()
}

// ReadIDs reads an order written by WriteIDs.
func ReadIDs(path string) ([]scheduler.TaskID, error) {
	file, errOpen := os.Open(path)
	if errOpen != nil {
		return nil,
			fmt.Errorf("open csv: %w", errOpen)
	}
	defer file.Close()

	row, errRead := csv.NewReader(file).Read()
	if errRead != nil {
		return nil,
			fmt.Errorf("read csv: %w", errRead)
	}

	result := make([]scheduler.TaskID, len(row))

	for ix, field := range row {
		id, errConv := strconv.Atoi(field)
		if errConv != nil {
			return nil,
				fmt.Errorf("csv field %d: %w", ix, errConv)
		}

		result[ix] = scheduler.TaskID(id)
	}

	return result,
		nil
}

type ReportTask struct {
	Name       string  `json:"name"`
	ID         int     `json:"id"`
	Start      float64 `json:"start"`
	Completion float64 `json:"completion"`
	DueDate    float64 `json:"dueDate"`
	Tardiness  float64 `json:"tardiness"`
}

type Report struct {
	RunID      string       `json:"runId"`
	Workflow   string       `json:"workflow"`
	Mode       string       `json:"mode"`
	Tardiness  float64      `json:"tardiness"`
	Iterations int          `json:"iterations"`
	Exhausted  bool         `json:"exhausted"`
	Cached     bool         `json:"cached"`
	Schedule   []ReportTask `json:"schedule"`
}

func NewReport(runID, workflow string, graph *scheduler.Graph, result *scheduler.Result) *Report {
	report := Report{
		RunID:      runID,
		Workflow:   workflow,
		Mode:       string(result.Mode),
		Tardiness:  result.Tardiness,
		Iterations: result.Iterations,
		Exhausted:  result.Exhausted,
	}

	for _, scheduled := range graph.Schedule(result.Order) {
		report.Schedule = append(
			report.Schedule,
			ReportTask{
				Name:       scheduled.Name,
				ID:         int(scheduled.ID),
				Start:      scheduled.Start,
				Completion: scheduled.Completion,
				DueDate:    scheduled.DueDate,
				Tardiness:  scheduled.Tardiness,
			},
		)
	}

	return &report
}

func (r *Report) Write(path string) error {
	data, errMarshal := json.MarshalIndent(r, "", "  ")
	if errMarshal != nil {
		return fmt.Errorf("marshal report: %w", errMarshal)
	}

	return os.WriteFile(path, data, 0o644)
}
