package output

import (
	"github.com/sonemaro/ewc/pkg/models"
)

// Warnings returns "⚠️  path: reason" for every failed target
func (f *formatter) Warnings(r models.Report) []string {
	var lines []string
	for _, e := range r.Entries {
		if e.OK() {
			continue
		}
		lines = append(lines, f.warning(e))
	}
	return lines
}

func (f *formatter) warning(e models.Result) string {
	msg := models.NewTargetError(e.Target.Name(), e.Err).Error()
	if !f.config.WithColors {
		return msg
	}
	return f.warnStyle.Sprint(warningIcon) + "  " + msg
}
