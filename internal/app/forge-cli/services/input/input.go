package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"pkg.world.dev/forge-cli/internal/pkg/printer"
)

var (
	ErrInputCanceled = eris.New("input canceled")
	ErrInvalidInput  = eris.New("invalid input")
)

var _ ServiceInterface = (*Service)(nil)

// NewService creates a new input service with standard stdin/stdout.
func NewService() *Service {
	return &Service{}
}

// NewTestService creates a new input service for testing with custom input/output.
func NewTestService(input io.Reader, output io.Writer) *Service {
	return &Service{
		Input:  input,
		Output: output,
	}
}

// Prompt displays a prompt and returns user input.
func (s *Service) Prompt(ctx context.Context, prompt, defaultValue string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
		if prompt != "" {
			s.printf("%s", prompt)
		}
		if defaultValue != "" {
			s.printf(" [%s]: ", defaultValue)
		} else {
			s.printf(": ")
		}

		input, err := s.readLine()
		if err != nil {
			return "", eris.Wrap(err, "failed to read input")
		}

		input = strings.TrimSpace(input)
		if input == "" && defaultValue != "" {
			return defaultValue, nil
		}
		return input, nil
	}
}

// Confirm asks for Y/n confirmation with default.
func (s *Service) Confirm(ctx context.Context, prompt, defaultValue string) (bool, error) {
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			input, err := s.Prompt(ctx, prompt, defaultValue)
			if err != nil {
				return false, err
			}

			switch strings.ToLower(input) {
			case "y", "yes":
				return true, nil
			case "n", "no":
				return false, nil
			default:
				s.println("Invalid input. Please enter 'y' or 'n'")
			}
		}
	}
}

// Select allows user to select from multiple options by number.
func (s *Service) Select(ctx context.Context, title, prompt string, options []string, defaultIndex int) (int, error) {
	if len(options) == 0 {
		return -1, eris.Wrap(ErrInvalidInput, "no options to select from")
	}
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
			s.println("")
			if title != "" {
				s.println(" " + title)
			}
			for i, option := range options {
				s.printf("%d. %s\n", i+1, option)
			}

			defaultStr := ""
			if defaultIndex >= 0 && defaultIndex < len(options) {
				defaultStr = strconv.Itoa(defaultIndex + 1)
			}

			input, err := s.Prompt(ctx, prompt, defaultStr)
			if err != nil {
				return 0, err
			}

			if input == "q" || input == "quit" {
				return -1, ErrInputCanceled
			}

			num, err := strconv.Atoi(input)
			if err != nil || num < 1 || num > len(options) {
				s.printf("Please enter a number between 1 and %d\n", len(options))
				continue
			}

			return num - 1, nil
		}
	}
}

// Helper methods for I/O operations

// readLine keeps one buffered reader per service so retries don't lose buffered input.
func (s *Service) readLine() (string, error) {
	if s.reader == nil {
		input := s.Input
		if input == nil {
			input = os.Stdin
		}
		s.reader = bufio.NewReader(input)
	}

	line, err := s.reader.ReadString('\n')
	if err != nil {
		if line != "" {
			return line, nil
		}
		return "", err
	}
	return line, nil
}

func (s *Service) printf(format string, args ...interface{}) {
	if s.Output == nil {
		printer.Info(fmt.Sprintf(format, args...))
		return
	}
	fmt.Fprintf(s.Output, format, args...)
}

func (s *Service) println(text string) {
	if s.Output == nil {
		printer.Infoln(text)
		return
	}
	fmt.Fprintln(s.Output, text)
}
