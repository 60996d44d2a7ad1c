package output

import (
	"strings"

	"github.com/sonemaro/ewc/pkg/logger"
	"github.com/sonemaro/ewc/pkg/report"
	"gopkg.in/yaml.v3"
)

func (f *formatter) formatYAML(groups []report.Group) (string, error) {
	f.log.Debug("Formatting YAML output")

	// same document shape as JSON
	doc := f.document(groups)
	if doc == nil {
		return "", nil
	}

	bytes, err := yaml.Marshal(doc)
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal YAML")
		return "", err
	}

	return strings.TrimSuffix(string(bytes), "\n"), nil
}
