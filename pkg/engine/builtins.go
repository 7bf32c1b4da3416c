package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/caldway/playvolume/pkg/config"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms console Lisp source before handing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids registering keyword symbols as globals, which would
//     collide with user variables of the same name.
//
//  2. Kebab-case to underscore: cell-count -> cell_count
//     zygomys treats hyphens in identifiers as subtraction, so kebab
//     identifiers are rewritten outside strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to the // form zygomys expects.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: line-width -> line_width.
		// Only when the hyphen sits between identifier characters.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toUint32 extracts a non-negative integer from a Sexp.
func toUint32(s zygo.Sexp) (uint32, error) {
	v, ok := s.(*zygo.SexpInt)
	if !ok {
		return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
	}
	if v.Val < 0 {
		return 0, fmt.Errorf("expected non-negative integer, got %d", v.Val)
	}
	return uint32(v.Val), nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// commit applies a candidate config after validation, so a bad console
// form never leaves the live config in a broken state.
func commit(cfg *config.Config, candidate config.Config) error {
	if err := candidate.Validate(); err != nil {
		return err
	}
	*cfg = candidate
	return nil
}

// registerBuiltins installs the tuning builtins into a zygomys
// environment. The builtins read and mutate the provided Config.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens become recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, cfg *config.Config) {

	// -----------------------------------------------------------------------
	// (scalar)        reads the cell edge length
	// (scalar 140)    sets it
	// -----------------------------------------------------------------------
	env.AddFunction("scalar", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return &zygo.SexpFloat{Val: cfg.Scalar}, nil
		}
		f, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scalar: %w", err)
		}
		candidate := *cfg
		candidate.Scalar = f
		if err := commit(cfg, candidate); err != nil {
			return zygo.SexpNull, fmt.Errorf("scalar: %w", err)
		}
		return &zygo.SexpFloat{Val: cfg.Scalar}, nil
	})

	// -----------------------------------------------------------------------
	// (cell-count)        reads the per-axis cell counts
	// (cell-count 2 1 1)  sets them
	//
	// Registered as "cell_count"; the preprocessor rewrites the hyphen.
	// -----------------------------------------------------------------------
	env.AddFunction("cell_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return cellCountSexp(env, cfg), nil
		}
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("cell-count requires 0 or 3 arguments, got %d", len(args))
		}
		candidate := *cfg
		for axis := 0; axis < 3; axis++ {
			n, err := toUint32(args[axis])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cell-count: axis %d: %w", axis, err)
			}
			candidate.CellCount[axis] = n
		}
		if err := commit(cfg, candidate); err != nil {
			return zygo.SexpNull, fmt.Errorf("cell-count: %w", err)
		}
		return cellCountSexp(env, cfg), nil
	})

	// -----------------------------------------------------------------------
	// (line-width)      reads the draw width
	// (line-width 2.5)  sets it
	// -----------------------------------------------------------------------
	env.AddFunction("line_width", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return &zygo.SexpFloat{Val: cfg.LineWidth}, nil
		}
		f, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line-width: %w", err)
		}
		candidate := *cfg
		candidate.LineWidth = f
		if err := commit(cfg, candidate); err != nil {
			return zygo.SexpNull, fmt.Errorf("line-width: %w", err)
		}
		return &zygo.SexpFloat{Val: cfg.LineWidth}, nil
	})

	// -----------------------------------------------------------------------
	// (color)           reads the boundary color
	// (color "#2288ff") sets it
	// -----------------------------------------------------------------------
	env.AddFunction("color", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return &zygo.SexpStr{S: cfg.Color}, nil
		}
		s, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("color: %w", err)
		}
		candidate := *cfg
		candidate.Color = s
		if err := commit(cfg, candidate); err != nil {
			return zygo.SexpNull, fmt.Errorf("color: %w", err)
		}
		return &zygo.SexpStr{S: cfg.Color}, nil
	})

	// -----------------------------------------------------------------------
	// (portal :approach 0.5 :shrink 0.25 :smoothing 0.08
	//         :direction-change 0.75 :scalar 3 :smallest 5)
	//
	// All keywords optional; with no arguments prints the current values.
	// -----------------------------------------------------------------------
	env.AddFunction("portal", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return &zygo.SexpStr{S: portalSummary(cfg)}, nil
		}

		pa := parseArgs(args)
		candidate := *cfg

		fields := []struct {
			key string
			dst *float64
		}{
			{"approach", &candidate.DistanceApproach},
			{"shrink", &candidate.DistanceShrink},
			{"smoothing", &candidate.PortalMovementSmoothingFactor},
			{"direction-change", &candidate.PortalDirectionChangeFactor},
			{"scalar", &candidate.PortalScalar},
			{"smallest", &candidate.PortalSmallest},
		}
		for _, f := range fields {
			v, ok := pa.kw[f.key]
			if !ok {
				continue
			}
			x, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("portal: %s: %w", f.key, err)
			}
			*f.dst = x
		}
		for key := range pa.kw {
			known := false
			for _, f := range fields {
				if f.key == key {
					known = true
					break
				}
			}
			if !known {
				return zygo.SexpNull, fmt.Errorf("portal: unknown keyword :%s", key)
			}
		}

		if err := commit(cfg, candidate); err != nil {
			return zygo.SexpNull, fmt.Errorf("portal: %w", err)
		}
		return &zygo.SexpStr{S: portalSummary(cfg)}, nil
	})

	// -----------------------------------------------------------------------
	// (info)  prints the whole tuning config
	// -----------------------------------------------------------------------
	env.AddFunction("info", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var sb strings.Builder
		fmt.Fprintf(&sb, "scalar %.2f\n", cfg.Scalar)
		fmt.Fprintf(&sb, "cell-count %d %d %d\n", cfg.CellCount[0], cfg.CellCount[1], cfg.CellCount[2])
		fmt.Fprintf(&sb, "color %s\n", cfg.Color)
		fmt.Fprintf(&sb, "line-width %.2f\n", cfg.LineWidth)
		fmt.Fprintf(&sb, "%s", portalSummary(cfg))
		return &zygo.SexpStr{S: sb.String()}, nil
	})
}

func cellCountSexp(env *zygo.Zlisp, cfg *config.Config) zygo.Sexp {
	vals := make([]zygo.Sexp, 3)
	for axis := 0; axis < 3; axis++ {
		vals[axis] = &zygo.SexpInt{Val: int64(cfg.CellCount[axis])}
	}
	return &zygo.SexpArray{Val: vals, Env: env}
}

func portalSummary(cfg *config.Config) string {
	return fmt.Sprintf(
		"portal :approach %.2f :shrink %.2f :smoothing %.2f :direction-change %.2f :scalar %.2f :smallest %.2f",
		cfg.DistanceApproach, cfg.DistanceShrink,
		cfg.PortalMovementSmoothingFactor, cfg.PortalDirectionChangeFactor,
		cfg.PortalScalar, cfg.PortalSmallest)
}
