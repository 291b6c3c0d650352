package pdftemplate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/text/unicode/norm"
)

// A Formatter turns a field value into text using a message pattern.  The
// pattern language is a subset of the familiar MessageFormat syntax:
//
//	{0}                       argument 0 in its default rendering
//	{0,number}                locale decimal
//	{0,number,integer}        rounded, no fraction
//	{0,number,percent}        value * 100 with a percent sign
//	{0,number,#,##0.00}       decimal pattern with 0, #, comma and period
//	{0,date[,style|pattern]}  short, medium, long, full, or a yMdEHhmsSaZzX pattern
//	{0,time[,style|pattern]}
//
// Month and day names are always English, whatever the locale.
//
// Text between single quotes is literal and '' is a single quote.  A slice
// value supplies arguments 0, 1, 2 and so on; any other value is argument 0.
// A Formatter is immutable and safe for concurrent use.
type Formatter struct {
	pattern string
	ifNull  string
	tag     language.Tag
	segs    []segment
}

type segment struct {
	literal string
	arg     int // -1 for literal text
	kind    string
	number  []number.Option
	percent bool
	prefix  string
	suffix  string
	date    []dateToken
}

type dateToken struct {
	literal string
	layout  string
	frac    bool // layout is ".000"; the leading period is dropped
	hour    rune // H, k, K or h, zero padded to width
	width   int
}

// NewFormatter parses pattern.  An empty pattern renders argument 0.  ifNull
// is the text produced for a nil value.
func NewFormatter(pattern, ifNull string, tag language.Tag) (*Formatter, error) {
	f := &Formatter{pattern: pattern, ifNull: ifNull, tag: tag}
	if pattern == "" {
		f.segs = []segment{{arg: 0}}
		return f, nil
	}
	segs, err := parseMessage(pattern)
	if err != nil {
		return nil, &FormatError{Pattern: pattern, Err: err}
	}
	f.segs = segs
	return f, nil
}

// Pattern returns the pattern the formatter was built from.
func (f *Formatter) Pattern() string { return f.pattern }

// IfNull returns the text rendered for nil values.
func (f *Formatter) IfNull() string { return f.ifNull }

// Format renders value.  The result is in Unicode normalization form C.
func (f *Formatter) Format(value any) (string, error) {
	if value == nil {
		return norm.NFC.String(f.ifNull), nil
	}
	var (
		sb   strings.Builder
		args = arguments(value)
	)
	p := message.NewPrinter(f.tag)
	for _, seg := range f.segs {
		if seg.arg < 0 {
			sb.WriteString(seg.literal)
			continue
		}
		if seg.arg >= len(args) {
			fmt.Fprintf(&sb, "{%d}", seg.arg)
			continue
		}
		s, err := f.formatArg(p, seg, args[seg.arg])
		if err != nil {
			return "", &FormatError{Pattern: f.pattern, Err: err}
		}
		sb.WriteString(s)
	}
	return norm.NFC.String(sb.String()), nil
}

func (f *Formatter) formatArg(p *message.Printer, seg segment, arg any) (string, error) {
	if arg == nil {
		return "", nil
	}
	switch seg.kind {
	case "":
		if t, ok := arg.(time.Time); ok {
			return t.Format("1/2/06 3:04 PM"), nil
		}
		if n, ok := toNumber(arg); ok {
			return p.Sprintf("%v", number.Decimal(n)), nil
		}
		return fmt.Sprint(arg), nil
	case "number":
		n, ok := toNumber(arg)
		if !ok {
			return "", fmt.Errorf("argument %d: %v is not a number", seg.arg, arg)
		}
		if seg.percent {
			return seg.prefix + p.Sprintf("%v", number.Percent(n, seg.number...)) + seg.suffix, nil
		}
		return seg.prefix + p.Sprintf("%v", number.Decimal(n, seg.number...)) + seg.suffix, nil
	default: // date, time
		t, ok := toTime(arg)
		if !ok {
			return "", fmt.Errorf("argument %d: %v is not a date", seg.arg, arg)
		}
		var sb strings.Builder
		for _, tok := range seg.date {
			switch {
			case tok.hour != 0:
				sb.WriteString(formatHour(t.Hour(), tok.hour, tok.width))
			case tok.layout == "":
				sb.WriteString(tok.literal)
			case tok.frac:
				sb.WriteString(t.Format(tok.layout)[1:])
			default:
				sb.WriteString(t.Format(tok.layout))
			}
		}
		return sb.String(), nil
	}
}

func arguments(v any) []any {
	switch v := v.(type) {
	case []any:
		return v
	case string, []byte:
		return []any{v}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	args := make([]any, rv.Len())
	for i := range args {
		args[i] = rv.Index(i).Interface()
	}
	return args
}

func toNumber(v any) (any, bool) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		return f, err == nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return v, true
	}
	return nil, false
}

func toTime(v any) (time.Time, bool) {
	switch v := v.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v != nil {
			return *v, true
		}
	case string:
		for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func parseMessage(pattern string) (segs []segment, err error) {
	var (
		lit strings.Builder
		rs  = []rune(pattern)
	)
	flush := func() {
		if lit.Len() != 0 {
			segs = append(segs, segment{literal: lit.String(), arg: -1})
			lit.Reset()
		}
	}
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\'':
			if i+1 < len(rs) && rs[i+1] == '\'' {
				lit.WriteRune('\'')
				i++
				continue
			}
			j := i + 1
			for ; j < len(rs); j++ {
				if rs[j] == '\'' {
					if j+1 < len(rs) && rs[j+1] == '\'' {
						lit.WriteRune('\'')
						j++
						continue
					}
					break
				}
				lit.WriteRune(rs[j])
			}
			if j >= len(rs) {
				return nil, errors.New("unterminated quote")
			}
			i = j
		case '{':
			j, quoted := i+1, false
			for ; j < len(rs) && (quoted || rs[j] != '}'); j++ {
				if rs[j] == '\'' {
					quoted = !quoted
				}
			}
			if j >= len(rs) {
				return nil, errors.New("unmatched {")
			}
			flush()
			seg, err := parsePlaceholder(string(rs[i+1 : j]))
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
			i = j
		default:
			lit.WriteRune(rs[i])
		}
	}
	flush()
	return segs, nil
}

func parsePlaceholder(body string) (seg segment, err error) {
	parts := strings.SplitN(body, ",", 3)
	if seg.arg, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil || seg.arg < 0 {
		return seg, fmt.Errorf("invalid argument index %q", parts[0])
	}
	if len(parts) > 1 {
		seg.kind = strings.ToLower(strings.TrimSpace(parts[1]))
	}
	var style string
	if len(parts) > 2 {
		style = strings.TrimSpace(parts[2])
	}
	switch seg.kind {
	case "":
	case "number":
		switch style {
		case "":
		case "integer":
			seg.number = []number.Option{number.MaxFractionDigits(0)}
		case "percent":
			seg.percent = true
		default:
			err = parseNumberPattern(&seg, style)
		}
	case "date", "time":
		seg.date, err = parseDateStyle(seg.kind, style)
	default:
		err = fmt.Errorf("unsupported format type %q", seg.kind)
	}
	return seg, err
}

// parseNumberPattern handles decimal patterns such as "#,##0.00", "0000"
// and "#.##%".  Literal text before or after the digits is kept.
func parseNumberPattern(seg *segment, pattern string) error {
	start := strings.IndexAny(pattern, "#0,.")
	end := strings.LastIndexAny(pattern, "#0,.")
	if start < 0 {
		return fmt.Errorf("number pattern %q has no digits", pattern)
	}
	seg.prefix, seg.suffix = pattern[:start], pattern[end+1:]
	if strings.HasSuffix(seg.suffix, "%") {
		seg.percent, seg.suffix = true, strings.TrimSuffix(seg.suffix, "%")
	}
	core := pattern[start : end+1]
	intPart, fracPart, _ := strings.Cut(core, ".")
	if strings.Trim(intPart, "#0,") != "" || strings.Trim(fracPart, "#0") != "" {
		return fmt.Errorf("invalid number pattern %q", pattern)
	}
	if n := strings.Count(intPart, "0"); n > 0 {
		seg.number = append(seg.number, number.MinIntegerDigits(n))
	}
	seg.number = append(seg.number,
		number.MinFractionDigits(strings.Count(fracPart, "0")),
		number.MaxFractionDigits(len(fracPart)))
	if !strings.Contains(intPart, ",") {
		seg.number = append(seg.number, number.NoSeparator())
	}
	return nil
}

var dateStyles = map[string]string{
	"date":        "M/d/yy",
	"date/short":  "M/d/yy",
	"date/medium": "MMM d, yyyy",
	"date/long":   "MMMM d, yyyy",
	"date/full":   "EEEE, MMMM d, yyyy",
	"time":        "h:mm:ss a",
	"time/short":  "h:mm a",
	"time/medium": "h:mm:ss a",
	"time/long":   "h:mm:ss a z",
	"time/full":   "h:mm:ss a z",
}

func parseDateStyle(kind, style string) ([]dateToken, error) {
	if style == "" {
		return parseDatePattern(dateStyles[kind])
	}
	if p, ok := dateStyles[kind+"/"+strings.ToLower(style)]; ok {
		return parseDatePattern(p)
	}
	return parseDatePattern(style)
}

// parseDatePattern translates a SimpleDateFormat style pattern into a list
// of Go layout fragments, each formatted separately so that literal text
// cannot be mistaken for a layout element.
func parseDatePattern(pattern string) (toks []dateToken, err error) {
	rs := []rune(pattern)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\'':
			if i+1 < len(rs) && rs[i+1] == '\'' {
				toks = append(toks, dateToken{literal: "'"})
				i++
				continue
			}
			j := i + 1
			var lit strings.Builder
			for ; j < len(rs); j++ {
				if rs[j] == '\'' {
					if j+1 < len(rs) && rs[j+1] == '\'' {
						lit.WriteRune('\'')
						j++
						continue
					}
					break
				}
				lit.WriteRune(rs[j])
			}
			if j >= len(rs) {
				return nil, fmt.Errorf("date pattern %q: unterminated quote", pattern)
			}
			toks = append(toks, dateToken{literal: lit.String()})
			i = j
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			n := 1
			for i+n < len(rs) && rs[i+n] == r {
				n++
			}
			tok, ok := dateLayout(r, n)
			if !ok {
				return nil, fmt.Errorf("date pattern %q: unsupported letter %q", pattern, r)
			}
			toks = append(toks, tok)
			i += n - 1
		default:
			toks = append(toks, dateToken{literal: string(r)})
		}
	}
	return toks, nil
}

// formatHour renders hour (0-23) in the range of letter: H is 0-23, k is
// 1-24, K is 0-11 and h is 1-12.  Go layouts cover only two of these.
func formatHour(hour int, letter rune, width int) string {
	switch letter {
	case 'k':
		if hour == 0 {
			hour = 24
		}
	case 'K':
		hour %= 12
	case 'h':
		if hour %= 12; hour == 0 {
			hour = 12
		}
	}
	return fmt.Sprintf("%0*d", width, hour)
}

func dateLayout(r rune, n int) (dateToken, bool) {
	pick := func(short, long string) dateToken {
		if n == 1 {
			return dateToken{layout: short}
		}
		return dateToken{layout: long}
	}
	switch r {
	case 'y':
		if n == 2 {
			return dateToken{layout: "06"}, true
		}
		return dateToken{layout: "2006"}, true
	case 'M', 'L':
		switch {
		case n <= 2:
			return pick("1", "01"), true
		case n == 3:
			return dateToken{layout: "Jan"}, true
		}
		return dateToken{layout: "January"}, true
	case 'd':
		return pick("2", "02"), true
	case 'E':
		if n <= 3 {
			return dateToken{layout: "Mon"}, true
		}
		return dateToken{layout: "Monday"}, true
	case 'a':
		return dateToken{layout: "PM"}, true
	case 'H', 'k', 'K', 'h':
		return dateToken{hour: r, width: n}, true
	case 'm':
		return pick("4", "04"), true
	case 's':
		return pick("5", "05"), true
	case 'S':
		return dateToken{layout: "." + strings.Repeat("0", min(n, 9)), frac: true}, true
	case 'z':
		return dateToken{layout: "MST"}, true
	case 'Z':
		return dateToken{layout: "-0700"}, true
	case 'X':
		switch n {
		case 1:
			return dateToken{layout: "Z07"}, true
		case 2:
			return dateToken{layout: "Z0700"}, true
		}
		return dateToken{layout: "Z07:00"}, true
	}
	return dateToken{}, false
}
