package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// Everforest Dark palette
var (
	colorFg          = "\x1b[38;5;223m"
	colorGreenBright = "\x1b[38;5;108m"
	colorGreenMid    = "\x1b[38;5;107m"
	colorGreenDeep   = "\x1b[38;5;65m"
	colorAqua        = "\x1b[38;5;109m"
	colorOrange      = "\x1b[38;5;208m"
	colorYellow      = "\x1b[38;5;179m"
	colorRed         = "\x1b[38;5;167m"
	colorRedBg       = "\x1b[48;5;52m"
	colorYellowBg    = "\x1b[48;5;58m"
)

// Keys rendered inline after the message, in this order. Other fields are
// dropped from console output; use --json to see everything.
var inlineFieldKeys = []string{
	FieldTarget,
	FieldDomain,
	FieldCode,
	FieldStage,
	FieldPath,
	FieldArchive,
	FieldOutput,
	FieldCount,
	FieldMembers,
	FieldDurationMS,
	FieldError,
}

func colorComponent(name string) string {
	// Hash for consistent color per component
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	switch hash % 3 {
	case 0:
		return colorGreenBright
	case 1:
		return colorGreenDeep
	default:
		return colorOrange
	}
}

// minimalEncoder is a compact console encoder.
// Format: "13:04:35  pipeline  target emitted  go  sdk/v1/go  42ms"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	pool            buffer.Pool
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		pool:    buffer.NewPool(),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		pool:    enc.pool,
	}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := enc.pool.Get()

	final.AppendString(colorGreenMid)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show for non-INFO with bold + background
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorFg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	if values := extractFieldValues(fields); values != "" {
		final.AppendString("  ")
		final.AppendString(values)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for non-INFO levels
func levelColorString(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return colorGreenDeep + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + colorYellowBg + colorYellow + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + colorRedBg + colorRed + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + colorRedBg + colorRed + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// abbreviateName shortens component names: emit.typescript -> e.typescript
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}
	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// extractFieldValues pulls just the values of well-known fields
// Input: {"target": "go", "count": 15, "duration_ms": 42}
// Output: "go 15 42ms" (with colored values)
func extractFieldValues(fields []zapcore.Field) string {
	byKey := make(map[string]zapcore.Field, len(fields))
	for _, f := range fields {
		byKey[f.Key] = f
	}

	var values []string
	for _, key := range inlineFieldKeys {
		field, ok := byKey[key]
		if !ok {
			continue
		}
		val := getFieldValue(field)
		if val == "" {
			continue
		}
		switch key {
		case FieldDurationMS:
			values = append(values, colorGreenBright+val+colorReset+"ms")
		case FieldCount, FieldMembers:
			values = append(values, colorGreenBright+val+colorReset)
		case FieldError:
			values = append(values, colorRed+val+colorReset)
		default:
			values = append(values, colorAqua+val+colorReset)
		}
	}

	return strings.Join(values, " ")
}
