package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// AgentConfig describes the searcher behind the agent of an experiment.
type AgentConfig struct {
	ID          int
	Episodes    int
	Duration    time.Duration
	Horizon     int
	Discount    float64
	Exploration float64
}

type GameRecord struct {
	ID    int
	Agent int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	dir string
}

// NewWriter creates baseDir/name/<timestamp> to hold the experiment's files.
func NewWriter(baseDir string, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	dir := filepath.Join(baseDir, name, timestamp)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{dir: dir}, nil
}

// Dir returns the directory the writer stores files in.
func (w *Writer) Dir() string {
	return w.dir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "episodes", "duration", "horizon", "discount", "exploration"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Episodes),
			config.Duration.String(),
			strconv.Itoa(config.Horizon),
			formatFloat(config.Discount),
			formatFloat(config.Exploration),
		})
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent", "start_time", "end_time", "duration", "total_moves", "terminal", "returns"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		returns := make([]string, len(record.Returns))
		for i, r := range record.Returns {
			returns[i] = formatFloat(r)
		}
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
			strconv.FormatBool(record.Terminal),
			strings.Join(returns, " "),
		})
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "duration", "episodes", "terminals", "rollouts", "degenerate", "expansions"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Player),
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.Terminals),
			strconv.Itoa(record.Rollouts),
			strconv.Itoa(record.Degenerate),
			strconv.Itoa(record.Expansions),
		})
	}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.dir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
