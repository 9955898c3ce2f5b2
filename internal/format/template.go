package format

import "github.com/MitjaBezensek/chart/internal/model"

// Label templates substitute the formatted number for "{0}".
const (
	TemplatePlain     = "{0}"
	TemplateThousands = "{0}K"
	TemplateMillions  = "{0}M"
	TemplateBillions  = "{0}bn"
	TemplatePercent   = "{0}%"
)

// LabelTemplate returns the unit label template for a display unit. The
// boolean is false when the unit has no template and the formatter default
// should be kept.
func LabelTemplate(hideUnits bool, unit model.DisplayUnit, abs float64) (string, bool) {
	if hideUnits {
		return TemplatePlain, true
	}
	switch unit {
	case model.UnitMillions, model.UnitThousands:
		return TemplatePlain + string(unit), true
	case model.UnitBillions:
		return TemplateBillions, true
	case model.UnitPercent:
		return TemplatePercent, true
	case model.UnitAuto:
		return defaultTemplate(magnitudeDivisor(abs)), true
	default:
		return "", false
	}
}

func defaultTemplate(divisor float64) string {
	switch divisor {
	case billion:
		return TemplateBillions
	case million:
		return TemplateMillions
	case thousand:
		return TemplateThousands
	default:
		return TemplatePlain
	}
}
