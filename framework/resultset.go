package framework

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Format int32

const (
	FormatDefault Format = iota + 1
	FormatPlain
	FormatJSON
	FormatTable
	FormatLine
)

var name2Format = map[string]Format{
	"default": FormatDefault,
	"plain":   FormatPlain,
	"json":    FormatJSON,
	"table":   FormatTable,
	"line":    FormatLine,
}

// ResultSet is the interface for printable command outcomes.
type ResultSet interface {
	PrintAs(Format) string
	Entities() any
}

// PresetResultSet implements Stringer and "memorize" output format.
type PresetResultSet struct {
	ResultSet
	format Format
}

func (rs *PresetResultSet) String() string {
	if rs.format < FormatDefault {
		return rs.PrintAs(FormatDefault)
	}
	return rs.PrintAs(rs.format)
}

func NewPresetResultSet(rs ResultSet, format Format) *PresetResultSet {
	return &PresetResultSet{
		ResultSet: rs,
		format:    format,
	}
}

// NameFormat name to format mapping tool function.
func NameFormat(name string) Format {
	f, ok := name2Format[strings.ToLower(name)]
	if !ok {
		return FormatDefault
	}
	return f
}

// PrintAs implements ResultSet.
func (r Result) PrintAs(format Format) string {
	switch format {
	case FormatJSON:
		return MarshalJSON(r.Entities())
	case FormatTable:
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Code", "Message"})
		t.AppendRow(table.Row{r.Code, r.Message})
		return t.Render()
	case FormatLine:
		return fmt.Sprintf("code=%d message=%q", r.Code, r.Message)
	default:
		return r.Message
	}
}

// Entities implements ResultSet.
func (r Result) Entities() any {
	return struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}{r.Code, r.Message}
}

// MarshalJSON is a helper function for JSON serialization.
// It returns a pretty-printed JSON string of the given value.
func MarshalJSON(v any) string {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(bs)
}
