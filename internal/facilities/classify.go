package facilities

import "strings"

// Type is the coarse facility category shown to patients.
type Type string

const (
	TypeHospital Type = "hospital"
	TypeClinic   Type = "clinic"
	TypePharmacy Type = "pharmacy"
	TypeDentist  Type = "dentist"
	TypeOptician Type = "optician"
)

// ClassifyType maps OpenStreetMap tags to a facility type. Untagged
// healthcare features count as clinics and anything else as a hospital.
func ClassifyType(tags map[string]string) Type {
	amenity, healthcare, shop := tags["amenity"], tags["healthcare"], tags["shop"]
	switch {
	case amenity == "hospital":
		return TypeHospital
	case amenity == "clinic", amenity == "doctors", healthcare == "doctor":
		return TypeClinic
	case amenity == "pharmacy", healthcare == "pharmacy":
		return TypePharmacy
	case amenity == "dentist", healthcare == "dentist":
		return TypeDentist
	case shop == "optician", healthcare == "optician":
		return TypeOptician
	case healthcare != "":
		return TypeClinic
	default:
		return TypeHospital
	}
}

// FallbackName names a facility that carries no name tag.
func FallbackName(tags map[string]string) string {
	switch tags["amenity"] {
	case "hospital":
		return "Hospital"
	case "clinic":
		return "Medical Clinic"
	case "doctors":
		return "Doctor's Office"
	case "pharmacy":
		return "Pharmacy"
	case "dentist":
		return "Dental Clinic"
	}
	if tags["shop"] == "optician" {
		return "Optical Center"
	}
	return "Healthcare Facility"
}

// TypeDisplay is the human label for t.
func TypeDisplay(t Type) string {
	switch t {
	case TypeHospital:
		return "Hospital"
	case TypeClinic:
		return "Medical Clinic"
	case TypePharmacy:
		return "Pharmacy"
	case TypeDentist:
		return "Dental Clinic"
	case TypeOptician:
		return "Optical Center"
	default:
		return "Healthcare Facility"
	}
}

// Icon returns the Font Awesome classes for a facility card.
func Icon(t Type) string {
	switch t {
	case TypeHospital:
		return "fas fa-2x text-primary fa-hospital"
	case TypeClinic:
		return "fas fa-2x text-primary fa-clinic-medical"
	case TypePharmacy:
		return "fas fa-2x text-success fa-prescription-bottle-alt"
	case TypeDentist:
		return "fas fa-2x text-warning fa-tooth"
	case TypeOptician:
		return "fas fa-2x text-primary fa-glasses"
	default:
		return "fas fa-2x text-primary fa-stethoscope"
	}
}

// FormatAddress builds a one-line address from addr:* tags, falling back to
// the bare street/city keys some mappers use. Empty when nothing is tagged.
func FormatAddress(tags map[string]string) string {
	if street := tags["addr:street"]; street != "" {
		var b strings.Builder
		if n := tags["addr:housenumber"]; n != "" {
			b.WriteString(n + " ")
		}
		b.WriteString(street)
		city, postcode := tags["addr:city"], tags["addr:postcode"]
		if city != "" || postcode != "" {
			b.WriteString(", " + city)
			if postcode != "" {
				b.WriteString(" " + postcode)
			}
		}
		return b.String()
	}

	var b strings.Builder
	if street := tags["street"]; street != "" {
		if n := tags["housenumber"]; n != "" {
			b.WriteString(n + " ")
		}
		b.WriteString(street)
	}
	city, postcode := tags["city"], tags["postcode"]
	if city != "" || postcode != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(city)
		if postcode != "" {
			b.WriteString(" " + postcode)
		}
	}
	return b.String()
}
