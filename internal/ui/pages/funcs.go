package pages

import (
	"html/template"
	"log/slog"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fittrack/fittrack/internal/dateutil"
	"github.com/fittrack/fittrack/internal/markdown"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/ui"
)

var (
	notesParser = markdown.NewParser()
	titleCaser  = cases.Title(language.English)
)

var funcs = template.FuncMap{
	"class":         ui.Class,
	"ordinalDate":   dateutil.FormatDateWithOrdinal,
	"display":       dateutil.FormatTimestampForDisplay,
	"urlDate":       dateutil.FormatURLDate,
	"dateTimeLocal": dateutil.FormatDateTimeLocal,
	"addDays": func(t time.Time, days int) time.Time {
		return t.AddDate(0, 0, days)
	},
	"categoryLabel": func(c model.ExerciseCategory) string {
		return titleCaser.String(string(c))
	},
	"markdown": renderNotes,
	"navActive": func(current, target string) string {
		if current == target {
			return "font-semibold"
		}
		return "text-gray-600"
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"minutes": func(m *int) int {
		if m == nil {
			return 0
		}
		return *m
	},
	"average": func(f float64) string {
		return strconv.FormatFloat(math.Round(f*10)/10, 'f', -1, 64)
	},
}

// renderNotes turns workout notes into HTML. Raw HTML in the source is dropped by the parser.
func renderNotes(notes *string) template.HTML {
	if notes == nil || *notes == "" {
		return ""
	}
	out, err := notesParser.ParseString(*notes)
	if err != nil {
		slog.Error("failed to render notes", "error", err)
		return template.HTML(template.HTMLEscapeString(*notes))
	}
	return template.HTML(out)
}
