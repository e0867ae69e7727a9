package tabulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responsable(ecole string) Voter {
	return Voter{ResponsableSalle: true, Ecole: ecole}
}

func etudiant() Voter {
	return Voter{}
}

func repeat(candidateID string, v Voter, n int) []Ballot {
	ballots := make([]Ballot, n)
	for i := range ballots {
		ballots[i] = Ballot{CandidateID: candidateID, Voter: v}
	}
	return ballots
}

func TestComputeWeightedScores(t *testing.T) {
	// Constituency A: X=3, Y=1 (totalA=4). Constituency B: X=10, Y=30
	// (totalB=40). Expected: X scores 0.6*75+0.4*25=55, Y scores 45.
	candidates := []CandidateRef{
		{ID: "x", Nom: "Kouassi", Prenom: "Aline"},
		{ID: "y", Nom: "Mensah", Prenom: "Koffi"},
	}

	var ballots []Ballot
	ballots = append(ballots, repeat("x", responsable("ESMEA"), 3)...)
	ballots = append(ballots, repeat("y", responsable("ESMEA"), 1)...)
	ballots = append(ballots, repeat("x", etudiant(), 10)...)
	ballots = append(ballots, repeat("y", etudiant(), 30)...)

	scores := Compute(candidates, ballots, ResponsablePolicy{Ecole: "ESMEA"})
	require.Len(t, scores, 2)

	assert.Equal(t, "x", scores[0].CandidateID)
	assert.InDelta(t, 75.0, scores[0].PctA, 1e-9)
	assert.InDelta(t, 25.0, scores[0].PctB, 1e-9)
	assert.InDelta(t, 55.0, scores[0].Score, 1e-9)

	assert.Equal(t, "y", scores[1].CandidateID)
	assert.InDelta(t, 25.0, scores[1].PctA, 1e-9)
	assert.InDelta(t, 75.0, scores[1].PctB, 1e-9)
	assert.InDelta(t, 45.0, scores[1].Score, 1e-9)
}

func TestComputeZeroConstituency(t *testing.T) {
	candidates := []CandidateRef{{ID: "x"}, {ID: "y"}}

	// No responsable ballots at all: scores rank purely on the 40% pool.
	var ballots []Ballot
	ballots = append(ballots, repeat("x", etudiant(), 3)...)
	ballots = append(ballots, repeat("y", etudiant(), 1)...)

	scores := Compute(candidates, ballots, ResponsablePolicy{})
	require.Len(t, scores, 2)

	assert.Equal(t, "x", scores[0].CandidateID)
	assert.Zero(t, scores[0].VotesA)
	assert.Zero(t, scores[0].PctA)
	assert.InDelta(t, 0.4*75.0, scores[0].Score, 1e-9)
	assert.InDelta(t, 0.4*25.0, scores[1].Score, 1e-9)
}

func TestComputeNoBallots(t *testing.T) {
	candidates := []CandidateRef{{ID: "x"}, {ID: "y"}}

	scores := Compute(candidates, nil, ResponsablePolicy{})
	require.Len(t, scores, 2)

	// All-zero scores keep insertion order.
	assert.Equal(t, "x", scores[0].CandidateID)
	assert.Equal(t, "y", scores[1].CandidateID)
	assert.Zero(t, scores[0].Score)
	assert.Zero(t, scores[1].Score)
}

func TestComputeTieKeepsInsertionOrder(t *testing.T) {
	candidates := []CandidateRef{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	var ballots []Ballot
	ballots = append(ballots, repeat("a", etudiant(), 2)...)
	ballots = append(ballots, repeat("b", etudiant(), 2)...)
	ballots = append(ballots, repeat("c", etudiant(), 2)...)

	scores := Compute(candidates, ballots, ResponsablePolicy{})
	require.Len(t, scores, 3)
	assert.Equal(t, "a", scores[0].CandidateID)
	assert.Equal(t, "b", scores[1].CandidateID)
	assert.Equal(t, "c", scores[2].CandidateID)
}

func TestClassifyScopesRepresentativeRole(t *testing.T) {
	policy := ResponsablePolicy{Ecole: "EGEI"}

	// A representative of another school counts as a general student
	// for this election.
	assert.Equal(t, Etudiants, policy.Classify(responsable("FDE")))
	assert.Equal(t, Responsables, policy.Classify(responsable("EGEI")))
	assert.Equal(t, Etudiants, policy.Classify(etudiant()))

	// University-wide scope counts representatives of any school.
	open := ResponsablePolicy{}
	assert.Equal(t, Responsables, open.Classify(responsable("FDE")))
}

func TestWeightsSumToOne(t *testing.T) {
	policy := ResponsablePolicy{}
	assert.InDelta(t, 1.0, policy.Weight(Responsables)+policy.Weight(Etudiants), 1e-9)
}

func TestParticipation(t *testing.T) {
	assert.InDelta(t, 50.0, Participation(5, 10), 1e-9)
	assert.Zero(t, Participation(0, 0))
	assert.InDelta(t, 100.0, Participation(10, 10), 1e-9)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(100.0/3.0))
	assert.Equal(t, 55.0, Round2(55.0))
}
