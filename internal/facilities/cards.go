package facilities

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

const cardsTemplate = `
{{- define "cards" -}}
<div class="results-count">{{ len .Facilities }} Found</div>
{{- if not .Facilities }}
<div class="col-12 text-center py-5">
    <i class="fas fa-hospital-alt fa-3x text-muted mb-3"></i>
    <h5>No healthcare facilities found</h5>
    <p>Try adjusting your search criteria or increasing the search radius</p>
</div>
{{- end }}
{{- range .Facilities }}
<div class="col-md-6 mb-4">
    <div class="card h-100 hospital-card" data-type="{{ .Type }}">
        <div class="card-body">
            <div class="d-flex align-items-center mb-3">
                <i class="facility-icon {{ icon .Type }}"></i>
                <div class="ms-3">
                    <h5 class="card-title facility-name mb-0">{{ .Name | trunc 120 }}</h5>
                    <small class="text-muted facility-type">{{ .TypeLabel }}</small>
                </div>
            </div>
            <p class="facility-address">{{ if .Address }}{{ .Address }}{{ else }}<em>Address not available</em>{{ end }}</p>
            <p class="facility-distance"><i class="fas fa-route me-1"></i><span>{{ km .DistanceKm }} away</span></p>
        </div>
        <div class="card-footer d-flex justify-content-between">
            <a class="btn btn-sm btn-primary directions-link" target="_blank" rel="noopener" href="{{ directions $.Origin .Point }}"><i class="fas fa-directions"></i> Get Directions</a>
            <a class="btn btn-sm btn-outline-secondary find-doctors-link" href="{{ doctorFinder .Point }}"><i class="fas fa-user-md"></i> Find Doctors</a>
        </div>
    </div>
</div>
{{- end }}
{{- end }}`

var cards = template.Must(template.New("facilities").Funcs(cardFuncs()).Parse(cardsTemplate))

func cardFuncs() template.FuncMap {
	funcMap := sprig.HtmlFuncMap()
	funcMap["icon"] = Icon
	funcMap["km"] = func(v float64) string { return fmt.Sprintf("%.1f km", v) }
	funcMap["directions"] = DirectionsURL
	funcMap["doctorFinder"] = DoctorFinderURL
	return funcMap
}

// RenderCards renders one card per facility, or a "not found" block when the
// list is empty. It depends only on its arguments.
func RenderCards(origin Point, facilities []Facility) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Origin     Point
		Facilities []Facility
	}{Origin: origin, Facilities: facilities}
	if err := cards.ExecuteTemplate(&buf, "cards", data); err != nil {
		return "", fmt.Errorf("facilities: render cards: %w", err)
	}
	return buf.String(), nil
}
