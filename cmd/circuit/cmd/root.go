package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thevenin"
	"thevenin/config"
)

var (
	// 全局参数
	cfgFile string
	verbose bool

	cfg    = config.Default()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "circuit",
	Short: "Series/parallel DC circuit reducer",
	Long: `Reduce a DC network of resistors and ideal voltage sources to its
total resistance, total voltage and total current.

Netlist syntax, one component per line:
  R 1 2 10      # resistor between nodes 1 and 2, 10 Ohms
  V 0 1 5       # 5 V source, polarity toward the higher node id
  .ground 2     # ground node

Examples:
  circuit shell                          # interactive circuit builder
  circuit calc bridge.cir --ground 0     # print circuit characteristics
  circuit render bridge.cir -o out.html  # reduction trace as a web page
  circuit serve bridge.cir --addr :8080  # live report and metrics`,
	Version:           "2.4.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute 执行根命令
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// setup 加载配置并创建日志
func setup(*cobra.Command, []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		loaded.Log.Level = "debug"
	}
	log, err := config.NewLogger(loaded.Log)
	if err != nil {
		return err
	}
	cfg, logger = loaded, log
	return nil
}

// newCircuit 按当前配置创建会话
func newCircuit(c *config.Config) *thevenin.Circuit {
	return thevenin.NewCircuit(thevenin.WithLogger(logger), thevenin.WithConfig(c))
}

// loadCircuit 读取网表
func loadCircuit(path string, c *config.Config) (*thevenin.Circuit, error) {
	cir := newCircuit(c)
	if err := cir.Load(path); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cir, nil
}

// groundOf 命令行参数优先, 其次为网表中的 .ground
func groundOf(cmd *cobra.Command, cir *thevenin.Circuit, flag int) (int, error) {
	if cmd.Flags().Changed("ground") {
		return flag, nil
	}
	if g, ok := cir.Ground(); ok {
		return g, nil
	}
	return 0, errors.New("ground node not specified: use --ground or a .ground directive")
}
