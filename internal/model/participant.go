package model

// Participant identifies one community member by an opaque address.
type Participant struct {
	ID            string  `json:"id" yaml:"id"`
	InitialWealth float64 `json:"initial_wealth" yaml:"initial_wealth"`
}

// PopulationConfig is the participant roster a simulation run starts from.
type PopulationConfig struct {
	Participants []Participant `json:"participants" yaml:"participants"`
}

// IDs returns the participant identifiers in roster order.
func (p *PopulationConfig) IDs() []string {
	ids := make([]string, len(p.Participants))
	for i, m := range p.Participants {
		ids[i] = m.ID
	}
	return ids
}
