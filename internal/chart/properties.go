package chart

// Object names understood by EnumerateObjectInstances.
const (
	ObjectDataLabels = "dataLabels"
	ObjectChart      = "chart"
)

// ObjectInstance is one group of settings shown in a properties panel.
type ObjectInstance struct {
	ObjectName string
	Properties map[string]any
}

// EnumerateObjectInstances lists the current values of the named settings
// object. Unknown names yield nil.
func (v *Visual) EnumerateObjectInstances(objectName string) []ObjectInstance {
	s := v.Settings()
	switch objectName {
	case ObjectDataLabels:
		l := s.DataLabels
		return []ObjectInstance{{
			ObjectName: objectName,
			Properties: map[string]any{
				"decimalPlaces":    l.DecimalPlaces,
				"displayUnit":      string(l.DisplayUnit),
				"percentageFormat": l.PercentageFormat,
				"hideUnits":        l.HideUnits,
				"fontFamily":       l.FontFamily,
				"fontSize":         l.FontSize,
				"fontWeight":       l.FontWeight,
			},
		}}
	case ObjectChart:
		c := s.Chart
		return []ObjectInstance{{
			ObjectName: objectName,
			Properties: map[string]any{
				"margin":    c.Margin,
				"padding":   c.Padding,
				"fill":      c.Fill,
				"reconcile": c.Reconcile,
			},
		}}
	default:
		return nil
	}
}
