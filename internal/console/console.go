// Package console reads validated values from a line-oriented terminal.
//
// Every reader loops until the input is acceptable, printing the reason for
// each rejection. The only way out without a value is end of input, which is
// returned as io.EOF.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/insumos/internal/models"
)

const (
	msgNotInteger = "Erro: entrada inválida. Por favor, digite um número inteiro."
	msgNotDecimal = "Erro: entrada inválida. Por favor, digite um número decimal."
	msgNegative   = "Erro: o valor deve ser não negativo."
	msgBadDate    = "Erro: data inválida. Use o formato YYYY-MM-DD."
	msgBadOption  = "Opção inválida. Tente novamente."
)

var (
	errNotNumber = errors.New("not a number")
	errNegative  = errors.New("negative value")
)

// Console pairs an input stream with the writer prompts go to.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Console reading lines from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Out returns the writer prompts and messages go to.
func (c *Console) Out() io.Writer {
	return c.out
}

// Println writes a line to the output.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Printf writes formatted text to the output.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Line prints prompt and returns the next input line, trimmed.
// A final line without a newline is still returned; io.EOF comes after it.
func (c *Console) Line(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)

	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// NonNegativeInt prompts until the input is an integer >= 0.
func (c *Console) NonNegativeInt(prompt string) (int64, error) {
	for {
		line, err := c.Line(prompt)
		if err != nil {
			return 0, err
		}

		v, err := parseNonNegativeInt(line)
		switch {
		case errors.Is(err, errNegative):
			c.Println(msgNegative)
		case err != nil:
			c.Println(msgNotInteger)
		default:
			return v, nil
		}
	}
}

// NonNegativeDecimal prompts until the input is a decimal >= 0.
// Both "2.50" and "2,50" are accepted.
func (c *Console) NonNegativeDecimal(prompt string) (decimal.Decimal, error) {
	for {
		line, err := c.Line(prompt)
		if err != nil {
			return decimal.Zero, err
		}

		v, err := parseNonNegativeDecimal(line)
		switch {
		case errors.Is(err, errNegative):
			c.Println(msgNegative)
		case err != nil:
			c.Println(msgNotDecimal)
		default:
			return v, nil
		}
	}
}

// Date prompts until the input is a YYYY-MM-DD date. Empty input selects today.
func (c *Console) Date(prompt string, today time.Time) (string, error) {
	for {
		line, err := c.Line(prompt)
		if err != nil {
			return "", err
		}
		if line == "" {
			return today.Format(models.DateLayout), nil
		}

		t, err := time.Parse(models.DateLayout, line)
		if err != nil {
			c.Println(msgBadDate)
			continue
		}
		return t.Format(models.DateLayout), nil
	}
}

// Choose lists options numbered from 1 plus "0. Cancelar" and prompts until a
// listed number is entered. ok is false when the user cancels with 0.
func (c *Console) Choose(title, prompt string, options []string) (choice string, ok bool, err error) {
	c.Println(title)
	for i, opt := range options {
		c.Printf("%d. %s\n", i+1, opt)
	}
	c.Println("0. Cancelar")

	for {
		line, err := c.Line(prompt)
		if err != nil {
			return "", false, err
		}

		n, err := strconv.Atoi(line)
		if err == nil && !strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "-") {
			if n == 0 {
				return "", false, nil
			}
			if n >= 1 && n <= len(options) {
				return options[n-1], true, nil
			}
		}
		c.Println(msgBadOption)
	}
}

// Confirm asks a yes/no question; only "s" (any case) means yes.
func (c *Console) Confirm(prompt string) (bool, error) {
	line, err := c.Line(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(line, "s"), nil
}

func parseNonNegativeInt(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errNotNumber
	}
	if v < 0 {
		return 0, errNegative
	}
	return v, nil
}

func parseNonNegativeDecimal(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, errNotNumber
	}
	if v.IsNegative() {
		return decimal.Zero, errNegative
	}
	return v, nil
}
