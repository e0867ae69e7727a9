package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kossiga/univote/models"
)

func salleElection(filiere string, annee int) models.Election {
	return models.Election{Type: models.TypeSalle, Filiere: &filiere, Annee: &annee}
}

func ecoleElection(ecole string) models.Election {
	return models.Election{Type: models.TypeEcole, Ecole: &ecole}
}

func TestEligibleSalle(t *testing.T) {
	r := &Resolver{}

	tests := []struct {
		name     string
		student  models.Student
		election models.Election
		want     bool
	}{
		{
			name:     "matching filiere and annee",
			student:  models.Student{Filiere: "Informatique de Gestion", Annee: 2},
			election: salleElection("Informatique de Gestion", 2),
			want:     true,
		},
		{
			name:     "wrong annee",
			student:  models.Student{Filiere: "Informatique de Gestion", Annee: 1},
			election: salleElection("Informatique de Gestion", 2),
			want:     false,
		},
		{
			name:     "wrong filiere",
			student:  models.Student{Filiere: "Droit", Annee: 2},
			election: salleElection("Informatique de Gestion", 2),
			want:     false,
		},
		{
			name:     "election missing scope",
			student:  models.Student{Filiere: "Droit", Annee: 1},
			election: models.Election{Type: models.TypeSalle},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Eligible(tt.student, tt.election))
		})
	}
}

func TestEligibleEcole(t *testing.T) {
	r := &Resolver{}

	tests := []struct {
		name     string
		student  models.Student
		election models.Election
		want     bool
	}{
		{
			name:     "responsable of the right school",
			student:  models.Student{Ecole: "ESMEA", Filiere: "Commerce", ResponsableSalle: true},
			election: ecoleElection("ESMEA"),
			want:     true,
		},
		{
			name:     "responsable of another school",
			student:  models.Student{Ecole: "FDE", Filiere: "Droit", ResponsableSalle: true},
			election: ecoleElection("ESMEA"),
			want:     false,
		},
		{
			name:     "plain student of the right school",
			student:  models.Student{Ecole: "ESMEA", Filiere: "Commerce"},
			election: ecoleElection("ESMEA"),
			want:     false,
		},
		{
			name:     "school derived from filiere when unset",
			student:  models.Student{Filiere: "Droit", ResponsableSalle: true},
			election: ecoleElection("FDE"),
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Eligible(tt.student, tt.election))
		})
	}
}

func TestEligibleUniversite(t *testing.T) {
	election := models.Election{Type: models.TypeUniversite}
	delegate := models.Student{Filiere: "Commerce", DelegueEcole: true}
	plain := models.Student{Filiere: "Commerce"}

	open := &Resolver{}
	assert.True(t, open.Eligible(delegate, election))
	assert.True(t, open.Eligible(plain, election))

	restricted := &Resolver{UniversityDelegatesOnly: true}
	assert.True(t, restricted.Eligible(delegate, election))
	assert.False(t, restricted.Eligible(plain, election))
}

func TestEligibleUnknownType(t *testing.T) {
	r := &Resolver{}
	assert.False(t, r.Eligible(models.Student{}, models.Election{Type: "REGIONAL"}))
}
