package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/presets/cli"
	"github.com/grovetools/presets/logging"
	"github.com/grovetools/presets/pkg/paths"
	"github.com/grovetools/presets/tui/theme"
	"github.com/hpcloud/tail"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// TailedLine is one line read from a component's log file.
type TailedLine struct {
	Component string
	Line      string
}

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the log files written by presets",
		Long: `Prints the most recent log file of each component (editor, session,
persist, watcher, ...). Lines written with the json format preset are
pretty-printed; other lines are shown as they are.

Examples:
  # Follow all components
  presets logs -f

  # Last 20 lines of the watcher log
  presets logs --component watcher --tail 20`,
		Args: cobra.NoArgs,
		RunE: runLogsE,
	}

	cmd.Flags().StringSlice("component", nil, "Only show these components")
	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().Int("tail", -1, "Number of lines to show from the end of each file (default: all)")

	return cmd
}

func runLogsE(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd)
	opts := cli.GetOptions(cmd)

	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	var logCfg logging.Config
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
		logger.Debugf("Ignoring invalid 'logging' config: %v", err)
	}

	components, _ := cmd.Flags().GetStringSlice("component")
	follow, _ := cmd.Flags().GetBool("follow")
	tailLines, _ := cmd.Flags().GetInt("tail")

	files, err := findLogFiles(logCfg, components)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Info("No log files found.")
		return nil
	}

	lineChan := make(chan TailedLine, 100)
	var wg sync.WaitGroup
	var tails []*tail.Tail

	for component, path := range files {
		offset, err := tailOffset(path, tailLines)
		if err != nil {
			logger.WithField("file", path).Debugf("Skipping: %v", err)
			continue
		}
		t, err := tail.TailFile(path, tail.Config{
			Follow:   follow,
			ReOpen:   follow,
			Location: &tail.SeekInfo{Offset: offset, Whence: io.SeekStart},
			Logger:   stdlog.New(io.Discard, "", 0),
		})
		if err != nil {
			logger.WithField("file", path).Debugf("Cannot tail: %v", err)
			continue
		}
		logger.WithFields(logrus.Fields{
			"component": component,
			"log_file":  path,
		}).Debug("Tailing log file")
		tails = append(tails, t)

		wg.Add(1)
		go func(component string, t *tail.Tail) {
			defer wg.Done()
			for line := range t.Lines {
				if line.Err != nil {
					continue
				}
				lineChan <- TailedLine{Component: component, Line: line.Text}
			}
		}(component, t)
	}

	go func() {
		wg.Wait()
		close(lineChan)
	}()
	defer func() {
		for _, t := range tails {
			t.Cleanup()
		}
	}()

	out := cmd.OutOrStdout()
	for tailed := range lineChan {
		if opts.JSONOutput {
			printLogJSON(out, tailed)
		} else {
			printLogText(out, tailed)
		}
	}
	return nil
}

// findLogFiles maps each component to its newest log file. A configured
// file path is used as-is for every component that logs to it.
func findLogFiles(logCfg logging.Config, components []string) (map[string]string, error) {
	files := make(map[string]string)

	if logCfg.File.Path != "" {
		path := logging.LogFilePath("presets", logCfg, time.Now())
		if _, err := os.Stat(path); err == nil {
			files["presets"] = path
		}
		return files, nil
	}

	dir := paths.LogDir()
	matches, err := filepath.Glob(filepath.Join(dir, "*.log"))
	if err != nil {
		return nil, fmt.Errorf("could not list log directory %s: %w", dir, err)
	}
	// Names end in -YYYY-MM-DD.log, so the last match per component is the newest.
	sort.Strings(matches)

	wanted := make(map[string]bool, len(components))
	for _, c := range components {
		wanted[c] = true
	}
	for _, path := range matches {
		component := componentFromLogName(filepath.Base(path))
		if component == "" || (len(wanted) > 0 && !wanted[component]) {
			continue
		}
		files[component] = path
	}
	return files, nil
}

// componentFromLogName extracts "watcher" from "watcher-2024-05-01.log".
func componentFromLogName(name string) string {
	name = strings.TrimSuffix(name, ".log")
	if len(name) < len("-2006-01-02") {
		return ""
	}
	date := name[len(name)-len("2006-01-02"):]
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ""
	}
	return strings.TrimSuffix(name[:len(name)-len(date)], "-")
}

// tailOffset returns the byte offset at which the last n lines of the file
// start. A negative n means the whole file.
func tailOffset(path string, n int) (int64, error) {
	if n < 0 {
		return 0, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return lastLinesOffset(data, n), nil
}

func lastLinesOffset(data []byte, n int) int64 {
	end := len(data)
	if end > 0 && data[end-1] == '\n' {
		end--
	}
	if n == 0 {
		return int64(len(data))
	}
	for i := 0; i < n; i++ {
		idx := bytes.LastIndexByte(data[:end], '\n')
		if idx < 0 {
			return 0
		}
		end = idx
	}
	return int64(end + 1)
}

// printLogJSON prints a log line as JSON, enriched with the component name.
func printLogJSON(w io.Writer, tailed TailedLine) {
	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(tailed.Line), &logMap); err != nil {
		logMap = map[string]interface{}{"raw_line": tailed.Line}
	}
	if _, ok := logMap["component"]; !ok {
		logMap["component"] = tailed.Component
	}
	jsonData, _ := json.Marshal(logMap)
	fmt.Fprintln(w, string(jsonData))
}

// printLogText pretty-prints a log line for human consumption.
func printLogText(w io.Writer, tailed TailedLine) {
	t := theme.DefaultTheme

	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(tailed.Line), &logMap); err != nil {
		fmt.Fprintf(w, "%s %s\n", t.Accent.Render(tailed.Component), tailed.Line)
		return
	}

	ts, _ := logMap["time"].(string)
	level, _ := logMap["level"].(string)
	msg, _ := logMap["msg"].(string)

	timeStr := ""
	if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		timeStr = parsed.Format("15:04:05")
	}

	var levelStyle lipgloss.Style
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		levelStyle = t.Error
	case "warning":
		levelStyle = t.Warning
	case "info":
		levelStyle = t.Info
	default:
		levelStyle = t.Muted
	}

	keys := make([]string, 0, len(logMap))
	for k := range logMap {
		switch k {
		case "time", "level", "msg", "component":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", t.Muted.Render(k), logMap[k]))
	}

	fmt.Fprintf(w, "%s %s %s %s %s\n",
		timeStr,
		t.Accent.Render(tailed.Component),
		levelStyle.Render(strings.ToUpper(level)),
		msg,
		strings.Join(fields, " "),
	)
}
