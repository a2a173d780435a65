package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/reoring/lenient"
	"github.com/reoring/lenient/internal/config"
	"github.com/reoring/lenient/internal/logger"
)

// enumValue is the element type behind --elem enum.
type enumValue string

// Report is what decode prints.
type Report struct {
	Elem         string          `json:"elem" yaml:"elem"`
	Shape        string          `json:"shape" yaml:"shape"`
	Tolerant     bool            `json:"tolerant" yaml:"tolerant"`
	Count        int             `json:"count" yaml:"count"`
	Value        any             `json:"value" yaml:"value"`
	Removed      []RemovedReport `json:"removed,omitempty" yaml:"removed,omitempty"`
	UnknownEnums []UnknownReport `json:"unknownEnums,omitempty" yaml:"unknownEnums,omitempty"`
}

// RemovedReport is one dropped element.
type RemovedReport struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// UnknownReport is one enum literal replaced by the fallback.
type UnknownReport struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name" yaml:"name"`
}

type decodeFlags struct {
	elem         string
	shape        string
	tolerant     bool
	enum         []string
	enumFallback string
	output       string
}

func newDecodeCmd() *cobra.Command {
	var f decodeFlags
	cmd := &cobra.Command{
		Use:   "decode [file|-]",
		Short: "Decode a JSON array and print the result with its mismatch log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			envDir, _ := cmd.Flags().GetString("env-dir")
			cfg, err := config.Load(envDir, cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if f.output != "" {
				cfg.Output = f.output
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			logg, err := logger.New(&cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logg.Sync() }()

			in := cmd.InOrStdin()
			name := "-"
			if len(args) == 1 && args[0] != "-" {
				name = args[0]
				file, err := os.Open(name)
				if err != nil {
					return err
				}
				defer file.Close()
				in = file
			}

			rep, err := runDecode(in, f, cfg, logg)
			if err != nil {
				return err
			}
			logg.Debug("decoded", zap.String("input", name), zap.Int("count", rep.Count), zap.Int("removed", len(rep.Removed)))
			return writeReport(cmd.OutOrStdout(), cfg.Output, rep)
		},
	}
	cmd.Flags().StringVar(&f.elem, "elem", "string", "element type: string|int|float|bool|uuid|time|any|enum")
	cmd.Flags().StringVar(&f.shape, "shape", "list", "collection shape: list|set")
	cmd.Flags().BoolVar(&f.tolerant, "tolerant", false, "drop elements that fail to decode instead of failing")
	cmd.Flags().StringSliceVar(&f.enum, "enum", nil, "enum literals for --elem enum")
	cmd.Flags().StringVar(&f.enumFallback, "enum-fallback", "", "value substituted for unknown enum literals")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "report format: json|yaml (overrides config)")
	return cmd
}

func runDecode(in io.Reader, f decodeFlags, cfg *config.Config, logg *zap.Logger) (*Report, error) {
	var shape lenient.Shape
	switch f.shape {
	case "list":
		shape = lenient.ShapeList
	case "set":
		shape = lenient.ShapeSet
	default:
		return nil, fmt.Errorf("unknown shape %q", f.shape)
	}

	reg := lenient.NewRegistry(lenient.WithLogger(logg))
	opt := lenient.DecodeOpt{ReadOpt: cfg.Decode.ReadOpt(), Registry: reg, Driver: cfg.Decode.JSONDriver()}

	var (
		out []byte
		log *lenient.MismatchLog
		err error
	)
	switch f.elem {
	case "string":
		out, log, err = decodeAs[string](in, opt, shape, f.tolerant)
	case "int":
		out, log, err = decodeAs[int64](in, opt, shape, f.tolerant)
	case "float":
		out, log, err = decodeAs[float64](in, opt, shape, f.tolerant)
	case "bool":
		out, log, err = decodeAs[bool](in, opt, shape, f.tolerant)
	case "uuid":
		out, log, err = decodeAs[uuid.UUID](in, opt, shape, f.tolerant)
	case "time":
		out, log, err = decodeAs[time.Time](in, opt, shape, f.tolerant)
	case "any":
		if shape == lenient.ShapeSet {
			return nil, fmt.Errorf("--elem any cannot be used with --shape set")
		}
		out, log, err = decodeList[any](in, opt, f.tolerant)
	case "enum":
		if len(f.enum) == 0 {
			return nil, fmt.Errorf("--elem enum needs --enum values")
		}
		values := make([]enumValue, len(f.enum))
		for i, v := range f.enum {
			values[i] = enumValue(strings.TrimSpace(v))
		}
		e := lenient.StringEnum(values...)
		if f.enumFallback != "" {
			e = e.WithFallback(enumValue(f.enumFallback))
		}
		lenient.RegisterType[enumValue](reg, e)
		out, log, err = decodeAs[enumValue](in, opt, shape, f.tolerant)
	default:
		return nil, fmt.Errorf("unknown element type %q", f.elem)
	}
	if err != nil {
		return nil, err
	}

	// numbers as float64 so the YAML report prints them as numbers
	value, _, err := lenient.Unmarshal[any](out, lenient.DecodeOpt{ReadOpt: lenient.ReadOpt{NumberMode: lenient.NumberFloat64}})
	if err != nil {
		return nil, err
	}
	rep := &Report{Elem: f.elem, Shape: shape.String(), Tolerant: f.tolerant, Value: value}
	if arr, ok := value.([]any); ok {
		rep.Count = len(arr)
	}
	for _, rm := range log.RemovedElements() {
		rep.Removed = append(rep.Removed, RemovedReport{Path: rm.Path, Error: rm.Err.Error()})
	}
	for _, ue := range log.UnknownEnums() {
		rep.UnknownEnums = append(rep.UnknownEnums, UnknownReport{Path: ue.Path, Name: ue.Name})
	}
	return rep, nil
}

func decodeAs[T comparable](in io.Reader, opt lenient.DecodeOpt, shape lenient.Shape, tolerant bool) ([]byte, *lenient.MismatchLog, error) {
	if shape == lenient.ShapeList {
		return decodeList[T](in, opt, tolerant)
	}
	if tolerant {
		return roundTrip[lenient.LenientSet[T]](in, opt)
	}
	return roundTrip[lenient.Set[T]](in, opt)
}

func decodeList[T any](in io.Reader, opt lenient.DecodeOpt, tolerant bool) ([]byte, *lenient.MismatchLog, error) {
	if tolerant {
		return roundTrip[lenient.LenientList[T]](in, opt)
	}
	return roundTrip[lenient.List[T]](in, opt)
}

// roundTrip decodes C and re-encodes it with the same registry.
func roundTrip[C any](in io.Reader, opt lenient.DecodeOpt) ([]byte, *lenient.MismatchLog, error) {
	v, log, err := lenient.UnmarshalReader[C](in, opt)
	if err != nil {
		return nil, log, err
	}
	out, err := lenient.Marshal(v, lenient.EncodeOpt{Registry: opt.Registry})
	if err != nil {
		return nil, log, err
	}
	return out, log, nil
}

func writeReport(w io.Writer, format string, rep *Report) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	}
	b, err := gojson.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
