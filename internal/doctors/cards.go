package doctors

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/Masterminds/sprig/v3"
)

const cardsTemplate = `
{{- define "cards" -}}
{{- if not . }}
<div class="col-12 text-center py-5">
    <i class="fas fa-user-md fa-3x text-muted mb-3"></i>
    <h5>No doctors found</h5>
    <p>Try a different specialization</p>
</div>
{{- end }}
{{- range . }}
<div class="col-md-6 mb-4">
    <div class="card h-100 doctor-card"{{ with .Coordinates }} data-lat="{{ .Lat }}" data-lng="{{ .Lng }}"{{ end }}>
        <div class="card-body">
            <h5 class="card-title doctor-name">{{ .Name }}</h5>
            <h6 class="card-subtitle mb-2 text-muted doctor-specialization">{{ .Specialization }}</h6>
            {{- $addr := list .Address .City .State | compact | join ", " }}
            {{- if $addr }}
            <p class="doctor-address"><i class="fas fa-map-marker-alt me-1"></i>{{ $addr }}</p>
            {{- end }}
            {{- if .Phone }}
            <p class="doctor-phone"><i class="fas fa-phone me-1"></i>{{ .Phone }}</p>
            {{- end }}
            {{- if .DistanceKm }}
            <p class="doctor-distance text-primary">{{ km .DistanceKm }} away</p>
            {{- end }}
            {{- with .Bio }}
            <p class="card-text doctor-bio">{{ . | trunc 200 }}</p>
            {{- end }}
        </div>
        <div class="card-footer">
            <a class="btn btn-primary btn-sm" href="{{ bookingURL .ID }}">Book Appointment</a>
        </div>
    </div>
</div>
{{- end }}
{{- end }}`

var cards = template.Must(template.New("doctors").Funcs(cardFuncs()).Parse(cardsTemplate))

func cardFuncs() template.FuncMap {
	funcMap := sprig.HtmlFuncMap()
	funcMap["km"] = func(v *float64) string { return fmt.Sprintf("%.1f km", *v) }
	funcMap["bookingURL"] = func(id int) string { return "/book-appointment?doctor_id=" + strconv.Itoa(id) }
	return funcMap
}

// RenderCards renders one card per listing in order.
func RenderCards(listings []Listing) (string, error) {
	var buf bytes.Buffer
	if err := cards.ExecuteTemplate(&buf, "cards", listings); err != nil {
		return "", fmt.Errorf("doctors: render cards: %w", err)
	}
	return buf.String(), nil
}
