package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchGround   int
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <netlist>",
	Short: "Recalculate a netlist whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().IntVarP(&watchGround, "ground", "g", 0, "ground node id (default: .ground directive)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "delay before recalculating after a change")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	w, err := newFileWatcher(path, logger)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	calc := func() {
		if err := watchCalc(cmd, path); err != nil {
			fmt.Fprintln(out, err)
		}
	}
	calc()
	return w.Run(cmd.Context(), watchDebounce, calc)
}

func watchCalc(cmd *cobra.Command, path string) error {
	cir, err := loadCircuit(path, cfg)
	if err != nil {
		return err
	}
	ground, err := groundOf(cmd, cir, watchGround)
	if err != nil {
		return err
	}
	report, err := cir.Calculate(ground)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printComponents(out, cir)
	printReport(out, report)
	return nil
}

// fileWatcher 监听单个文件的修改
// 监听所在目录, 以便编辑器替换文件后仍能收到事件
type fileWatcher struct {
	path    string
	log     *zap.Logger
	watcher *fsnotify.Watcher
}

func newFileWatcher(path string, log *zap.Logger) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return &fileWatcher{path: abs, log: log, watcher: watcher}, nil
}

// Run 文件变化后等待 debounce 再调用 fn, ctx 取消时返回
func (w *fileWatcher) Run(ctx context.Context, debounce time.Duration, fn func()) error {
	defer w.watcher.Close()

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || filepath.Clean(event.Name) != w.path {
				continue
			}
			w.log.Debug("netlist changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.log.Info("recalculating", zap.String("file", w.path))
			fn()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("file watcher error", zap.Error(err))
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		}
	}
}
