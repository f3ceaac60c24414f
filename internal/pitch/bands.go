package pitch

type Effects struct {
	Physical  []string `json:"physical"`
	Emotional []string `json:"emotional"`
	Energetic []string `json:"energetic"`
}

type Band struct {
	Key     string  `json:"key"`
	Name    string  `json:"name"`
	MinHz   float64 `json:"min_hz"`
	MaxHz   float64 `json:"max_hz"`
	Effects Effects `json:"effects"`
}

var bands = []Band{
	{
		Key: "first_octave", Name: "Premier Octave", MinHz: 75, MaxHz: 150,
		Effects: Effects{
			Physical:  []string{"Ancrage", "Stabilité", "Connexion à la terre"},
			Emotional: []string{"Sécurité", "Confiance de base", "Stabilité émotionnelle"},
			Energetic: []string{"Énergie vitale", "Force physique", "Résistance"},
		},
	},
	{
		Key: "second_octave", Name: "Deuxième Octave", MinHz: 150, MaxHz: 300,
		Effects: Effects{
			Physical:  []string{"Vitalité", "Énergie créatrice", "Expression corporelle"},
			Emotional: []string{"Créativité", "Joie de vivre", "Expression émotionnelle"},
			Energetic: []string{"Fluidité énergétique", "Dynamisme", "Circulation"},
		},
	},
	{
		Key: "third_octave", Name: "Troisième Octave", MinHz: 300, MaxHz: 600,
		Effects: Effects{
			Physical:  []string{"Équilibre", "Harmonie corporelle", "Coordination"},
			Emotional: []string{"Harmonie émotionnelle", "Paix intérieure", "Sérénité"},
			Energetic: []string{"Équilibre énergétique", "Harmonisation", "Alignement"},
		},
	},
}

// BandFor returns the frequency band containing freq. The first band is
// closed on both ends, later bands are open on their lower bound.
func BandFor(freq float64) (Band, bool) {
	for i, b := range bands {
		lowOK := freq > b.MinHz
		if i == 0 {
			lowOK = freq >= b.MinHz
		}
		if lowOK && freq <= b.MaxHz {
			return b, true
		}
	}
	return Band{}, false
}

func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}
