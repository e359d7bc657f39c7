package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thevenin"
	"thevenin/load"
	"thevenin/types"
)

const instructions = `Welcome to the circuit builder program.
Input 'add' to add components into the circuit.
Input 'edit' to remove components from the circuit.
Input 'display' to display components currently in the circuit.
Input 'calculate' to determine total resistance and current in circuit.
Input 'help' to show these instructions again.
Input 'end' to end the program.

Input resistors (R) and voltage sources (V) into the circuit by the following syntax:
R/V X Y Z
R indicates a resistor and V indicates a voltage source.
X is an integer indicating the first node attached to component.
Y is an integer indicating the second node attached to component.
Z a number indicating the resistance in Ohms or Voltage in volts.
For example: R 1 2 10 will add a resistor connected to nodes 1 and 2 with a resistance of 10 Ohms.

Rules:
Voltage/Resistor values must be non-zero and Resistor values must also be positive. Voltage polarity is directed to increasing node Id.
Resistors must be connected serially or in parallel.
Voltage sources must be connected in series around a single loop.
`

var shellCmd = &cobra.Command{
	Use:   "shell [netlist]",
	Short: "Interactive circuit builder",
	Long: `Build a circuit line by line and calculate its characteristics.
An optional netlist is loaded first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	cir := newCircuit(cfg)
	if len(args) == 1 {
		var err error
		if cir, err = loadCircuit(args[0], cfg); err != nil {
			return err
		}
	}
	sh := &shell{
		cir: cir,
		in:  bufio.NewScanner(cmd.InOrStdin()),
		out: cmd.OutOrStdout(),
	}
	return sh.run()
}

// shell 交互会话
type shell struct {
	cir *thevenin.Circuit
	in  *bufio.Scanner
	out io.Writer
}

func (s *shell) println(a ...any) { fmt.Fprintln(s.out, a...) }

// readLine 读取一行, 输入结束时返回 false
func (s *shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// run 命令循环, 读取输入出错时返回该错误
func (s *shell) run() error {
	s.println(instructions)
	for {
		line, ok := s.readLine()
		if !ok {
			break
		}
		cmd, _ := load.ParseCommand(line)
		if cmd == load.CmdEnd {
			break
		}
		if !s.dispatch(cmd) {
			break
		}
	}
	err := s.in.Err()
	if err != nil {
		s.println(fmt.Errorf("read input: %w", err))
	}
	s.println("All Done")
	return err
}

// dispatch 执行命令, 输入结束时返回 false
func (s *shell) dispatch(cmd load.Command) bool {
	switch cmd {
	case load.CmdAdd:
		return s.add()
	case load.CmdEdit:
		return s.edit()
	case load.CmdDisplay:
		s.display()
	case load.CmdCalculate:
		return s.calculate()
	case load.CmdHelp:
		s.println(instructions)
	default:
		s.println("Invalid input. Enter a valid command as specified in the instructions.")
	}
	return true
}

func (s *shell) add() bool {
	s.println("Add a resistor or a voltage.")
	for {
		line, ok := s.readLine()
		if !ok {
			return false
		}
		comp, err := s.addLine(line)
		if err != nil {
			s.println(err)
			s.println(retryMessage(line))
			continue
		}
		switch comp.Kind {
		case types.KindResistor:
			s.println("Added Resistor: " + comp.String())
		case types.KindVoltage:
			s.println("Voltage added: " + comp.String())
		}
		return true
	}
}

func (s *shell) addLine(line string) (types.Component, error) {
	e, err := load.ParseLine(line)
	if err != nil {
		return types.Component{}, err
	}
	kind, err := e.Kind()
	if err != nil {
		return types.Component{}, err
	}
	n1, n2, err := e.Nodes()
	if err != nil {
		return types.Component{}, err
	}
	return s.cir.Add(kind, n1, n2, e.Value)
}

// retryMessage 按输入的元件类型给出语法提示
func retryMessage(line string) string {
	var kind types.Kind
	if line != "" {
		kind, _ = types.ParseKind(line[:1])
	}
	switch kind {
	case types.KindResistor:
		return "Invalid input. Resistor syntax is R X Y Z. Input a resistor:"
	case types.KindVoltage:
		return "Invalid input. Voltage syntax is V X Y Z. Input a voltage:"
	default:
		return "Invalid input. Enter a voltage source or resistor with the following syntax R/V X Y Z. Try again:"
	}
}

func (s *shell) edit() bool {
	s.println("Which component would you like to remove? Enter only the unique identifier with no spaces (Ex. R1 or V2):")
	for {
		line, ok := s.readLine()
		if !ok {
			return false
		}
		kind, id, err := thevenin.ParseLabel(line)
		if err != nil {
			s.println(err)
			s.println("Invalid input. Enter only the Letter (R or V) and the number of the component you wish to remove. Try again:")
			continue
		}
		comp, err := s.cir.RemoveID(kind, id)
		switch {
		case err == nil:
			logger.Debug("removed", zap.Stringer("component", comp))
			s.println("Removed component.")
		case errors.Is(err, types.ErrNotFound):
			s.println(kind.String() + " not found.")
		default:
			s.println(err)
		}
		return true
	}
}

func (s *shell) display() {
	if s.cir.Len() == 0 {
		s.println("No Components have been added yet.")
		return
	}
	printComponents(s.out, s.cir)
}

func (s *shell) calculate() bool {
	if s.cir.Len() == 0 {
		s.println("Must have components in circuit before calculating.")
		return true
	}
	s.println()
	s.println("Where is the ground voltage? Enter the unique node ID number only.")
	var ground int
	for {
		line, ok := s.readLine()
		if !ok {
			return false
		}
		id, err := strconv.Atoi(line)
		if err != nil {
			s.println("Invalid input. Enter only the node ID (an integer value):")
			continue
		}
		ground = id
		break
	}
	s.println()
	s.println("Calculating:")
	printComponents(s.out, s.cir)
	report, err := s.cir.Calculate(ground)
	if err != nil {
		s.println(err)
	} else {
		printReport(s.out, report)
	}
	s.println()
	s.println("You may continue to operate on the circuit. Enter a new input command.")
	return true
}
