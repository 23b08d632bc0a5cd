package service

import "github.com/serviconnect/backend/internal/model"

// BadgeDefinition is the static form of a badge, written to the database by
// SeedBadges. Slug names the icon file used by cmd/seed.
type BadgeDefinition struct {
	Name        string
	Slug        string
	Description string
	IconURL     *string
	Rule        model.BadgeRule
}

const (
	BadgeWelcome          = "Bem-vindo ao ServiConnect"
	BadgeFirstAppointment = "Primeiro Agendamento"
	BadgeFirstReview      = "Avaliador Iniciante"
	BadgeFrequentCustomer = "Cliente Frequente"
	BadgePointsMaster     = "Mestre dos Pontos"
)

// DefaultBadgeCatalog returns a fresh copy of the built-in badges.
func DefaultBadgeCatalog() []BadgeDefinition {
	return []BadgeDefinition{
		{
			Name:        BadgeWelcome,
			Slug:        "bem-vindo",
			Description: "Concedido ao criar sua conta no ServiConnect.",
			Rule:        model.AlwaysOnTriggerRule{Event: model.EventUserRegistered},
		},
		{
			Name:        BadgeFirstAppointment,
			Slug:        "primeiro-agendamento",
			Description: "Concluiu o primeiro agendamento.",
			Rule:        model.FirstOccurrenceRule{Event: model.EventAppointmentCompleted},
		},
		{
			Name:        BadgeFirstReview,
			Slug:        "avaliador-iniciante",
			Description: "Publicou a primeira avaliação de um serviço.",
			Rule:        model.FirstOccurrenceRule{Event: model.EventReviewCreated},
		},
		{
			Name:        BadgeFrequentCustomer,
			Slug:        "cliente-frequente",
			Description: "Concluiu 5 agendamentos.",
			Rule:        model.CountThresholdRule{Event: model.EventAppointmentCompleted, RequiredCount: 5},
		},
		{
			Name:        BadgePointsMaster,
			Slug:        "mestre-dos-pontos",
			Description: "Acumulou 100 pontos.",
			Rule:        model.ThresholdRule{Points: 100},
		},
	}
}

// ApplyIconURLs returns a copy of defs with IconURL set from urls, keyed by
// slug. Definitions without an entry keep their current icon.
func ApplyIconURLs(defs []BadgeDefinition, urls map[string]string) []BadgeDefinition {
	out := make([]BadgeDefinition, len(defs))
	copy(out, defs)
	for i := range out {
		if u, ok := urls[out[i].Slug]; ok && u != "" {
			u := u
			out[i].IconURL = &u
		}
	}
	return out
}
