package usecase

import "github.com/vondralink/backend/internal/domain"

// Profile answer-tag mappings. Each questionnaire answer is a closed
// enumeration; unrecognized input maps to "Unknown" (or an empty hobby
// list). These functions are the single owner of the mapping tables; every
// caller imports them from here.

const unknownLabel = "Unknown"

// MapGender maps a style-focus answer tag to a gender label.
func MapGender(val string) string {
	switch val {
	case "masculine":
		return "Male"
	case "feminine":
		return "Female"
	case "neutral", "mixed":
		return "Non-binary"
	default:
		return unknownLabel
	}
}

// MapGeneration maps an era answer tag to a generation label.
func MapGeneration(val string) string {
	switch val {
	case "genz":
		return "Gen Z"
	case "millennial":
		return "Millennial"
	case "genx":
		return "Gen X"
	default:
		return unknownLabel
	}
}

// MapPhilosophy maps a shopping-philosophy answer tag to its label.
func MapPhilosophy(val string) string {
	switch val {
	case "value":
		return "The Value Hunter"
	case "researcher":
		return "The Researcher"
	case "bifl":
		return "Buy It For Life"
	case "enthusiast":
		return "The Enthusiast"
	default:
		return unknownLabel
	}
}

// MapTreat maps a treat-preference answer tag to its label.
func MapTreat(val string) string {
	switch val {
	case "small":
		return "Small & Sweet"
	case "upgrade":
		return "The Solid Upgrade"
	case "splurge":
		return "The Big Splurge"
	default:
		return unknownLabel
	}
}

// MapArchetype maps a mode answer tag to a lifestyle archetype.
func MapArchetype(val string) string {
	switch val {
	case "creator":
		return "The Creator"
	case "optimizer":
		return "The Optimizer"
	case "nester":
		return "The Nester"
	case "explorer":
		return "The Explorer"
	default:
		return unknownLabel
	}
}

// MapAesthetic maps an aesthetic answer tag to a vibe label.
func MapAesthetic(val string) string {
	switch val {
	case "minimalist":
		return "Minimalist"
	case "industrial":
		return "Industrial"
	case "retro":
		return "Retro"
	case "cyber":
		return "Cyber"
	default:
		return unknownLabel
	}
}

// MapHobbies maps a sunday-routine answer tag to a hobby list.
func MapHobbies(val string) []string {
	switch val {
	case "focus":
		return []string{"Coding", "Writing"}
	case "grind":
		return []string{"Gaming", "Hardware"}
	case "recharge":
		return []string{"Yoga", "Meditation"}
	case "out":
		return []string{"Hiking", "Cycling"}
	case "hosting":
		return []string{"Cooking", "Mixology"}
	default:
		return []string{}
	}
}

// DetermineTier derives the richness tier from treat and philosophy tags.
func DetermineTier(treat, philosophy string) string {
	if treat == "splurge" || philosophy == "enthusiast" {
		return "Luxury"
	}
	if treat == "upgrade" || philosophy == "bifl" {
		return "Premium"
	}
	return "Standard"
}

// TransformProfile converts raw questionnaire answers into the canonical
// profile shape sent with personalized recommendation requests.
func TransformProfile(answers domain.QuestionnaireAnswers) domain.UserProfile {
	return domain.UserProfile{
		Demographics: domain.Demographics{
			Gender:     MapGender(answers.StyleFocus),
			Generation: MapGeneration(answers.Era),
		},
		WealthSignals: domain.WealthSignals{
			ShoppingPhilosophy: MapPhilosophy(answers.Philosophy),
			TreatPreference:    MapTreat(answers.Treat),
		},
		RichnessTier: DetermineTier(answers.Treat, answers.Philosophy),
		Lifestyle: domain.Lifestyle{
			Archetype: MapArchetype(answers.Mode),
			Vibe:      MapAesthetic(answers.Aesthetic),
			Hobbies:   MapHobbies(answers.Sunday),
		},
	}
}
