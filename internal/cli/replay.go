package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lakeroad/sparktel/internal/transport"
	"github.com/lakeroad/sparktel/pkg/domain"
)

var replayCmd = &cobra.Command{
	Use:   "replay <events.jsonl>",
	Short: "Relay captured telemetry events through the configured transport",
	Long: `Replay reads one JSON event per line, in the form
{"timestamp": <millis>, "event": {"type": ..., "source": ..., "data": ...}},
stages the whole file as a single batch, and sends it through the
transport selected by the configuration (stdout or NATS).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return fail(runReplay(args[0]))
	},
}

type replayLine struct {
	TimestampMillis int64                  `json:"timestamp"`
	Event           domain.StructuredEvent `json:"event"`
}

func runReplay(path string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tr, err := transport.New(logger, cfg)
	if err != nil {
		return err
	}
	if closer, ok := tr.(interface{ Close() }); ok {
		defer closer.Close()
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open events file: %w", err)
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry replayLine
		if err := json.Unmarshal(line, &entry); err != nil {
			return fmt.Errorf("failed to parse event on line %d: %w", count+1, err)
		}
		tr.AddToBatch(entry.Event, entry.TimestampMillis)
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read events file: %w", err)
	}

	tr.SendBatchAsync()
	logger.Info("Replayed telemetry batch",
		zap.Int("events", count),
		zap.String("transport", string(cfg.Transport)))
	return nil
}
