// Copyright (c) 2025 Kossi Gaba.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package academic holds the university's reference data: the four schools
(EGEI, ESMEA, FSAE, FDE), the filières each one teaches, and the valid
years of study.

Registration validates student attributes against this data, and the
tabulation scope resolution uses SchoolForFiliere to find which school a
room-level election belongs to.
*/
package academic
