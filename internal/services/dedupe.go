package services

import "strings"

// producerSeed is the in-memory producer candidate built from the first row
// seen for an identity. Name fields prefer the auxiliary-sheet contact when
// one resolves; farm name and lifetime aggregates always come from that first
// row's cost-share cells and are never accumulated across rows.
type producerSeed struct {
	PersonID      string
	FirstName     string
	LastName      string
	FarmName      string
	LifetimeTotal float64
	LifetimeAcres float64
	Segment       *int
	Contact       *contactInfo
}

type contractSeed struct {
	PersonID       string
	ContractNumber string
}

// dedupeResult carries the three structures the materializer consumes: the
// deduplicated producer and contract maps, plus the full ordered row list
// that drives per-row BMP/practice/bill creation.
type dedupeResult struct {
	Producers     map[string]*producerSeed
	ProducerOrder []string
	Contracts     map[string]*contractSeed
	ContractOrder []string
	Rows          []sourceRow
}

func contractKey(personID, contractNumber string) string {
	return personID + "_" + contractNumber
}

// splitFullName splits on the first space: everything before it is the first
// name, everything after is the last name.
func splitFullName(full string) (string, string) {
	first, last, found := strings.Cut(full, " ")
	if !found {
		return full, ""
	}
	return first, last
}

// dedupeRows collapses the ordered normalized rows into unique producers and
// contracts. Rows without any identity must already be filtered out.
func dedupeRows(rows []sourceRow, contacts *contactLookup) *dedupeResult {
	res := &dedupeResult{
		Producers: make(map[string]*producerSeed),
		Contracts: make(map[string]*contractSeed),
		Rows:      rows,
	}
	for _, row := range rows {
		if _, seen := res.Producers[row.PersonID]; !seen {
			seed := &producerSeed{
				PersonID:      row.PersonID,
				FarmName:      row.FarmName,
				LifetimeTotal: row.LifetimeTotal,
				LifetimeAcres: row.LifetimeAcres,
				Segment:       row.ProjectSegment,
			}
			seed.FirstName, seed.LastName = splitFullName(row.FullName)
			if c, ok := contacts.contact(row.PersonID); ok {
				if c.FullName != "" {
					seed.FirstName, seed.LastName = splitFullName(c.FullName)
				}
				contact := c
				seed.Contact = &contact
			}
			res.Producers[row.PersonID] = seed
			res.ProducerOrder = append(res.ProducerOrder, row.PersonID)
		}

		// Rows without a contract number still seed a producer but never
		// reach the contract map, which drops their BMP chain downstream.
		if row.ContractNumber == "" {
			continue
		}
		key := contractKey(row.PersonID, row.ContractNumber)
		if _, seen := res.Contracts[key]; !seen {
			res.Contracts[key] = &contractSeed{
				PersonID:       row.PersonID,
				ContractNumber: row.ContractNumber,
			}
			res.ContractOrder = append(res.ContractOrder, key)
		}
	}
	return res
}
