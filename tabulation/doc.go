// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tabulation computes weighted election results.

Votes are partitioned into two constituencies by a pluggable
WeightPolicy: responsables de salle (weighted 60%) and general students
(weighted 40%). Each candidate's percentage is computed within each
constituency, then combined:

	score = 0.6*pctResponsables + 0.4*pctEtudiants

The fixed weighting keeps a numerically larger student body from
drowning out representative input. A constituency with no ballots
contributes 0 for every candidate, so an election with no responsable
votes ranks purely on the student pool.

	refs := []tabulation.CandidateRef{...}     // insertion order
	scores := tabulation.Compute(refs, ballots, tabulation.ResponsablePolicy{Ecole: "ESMEA"})

Candidates come back ranked descending by unrounded score; ties keep
insertion order. Round2 is for display only.

The package is database-free: handlers load candidates and annotated
ballots, then hand them over.
*/
package tabulation
