package services

import "strings"

// Column labels of the auxiliary Master Database sheet.
const (
	contactColPersonID  = "PersonID"
	contactColFullName  = "Full Name"
	contactColFullNameB = "FullName"
	contactColEmail     = "Email"
	contactColPhone     = "Phone"
	contactColAltPhone  = "Alt Phone"
	contactColAddress1  = "Address 1"
	contactColAddress2  = "Address 2"
	contactColCity      = "City"
	contactColState     = "State"
	contactColZip       = "Zip"
	contactColRecordURL = "Record URL"
	contactColRole      = "Relationship"
)

// Role tag fragments matched case-insensitively against the free-text
// relationship column.
const (
	roleRecipient      = "cost-share recipient"
	roleSegmentContact = "segment contact"
	roleSegment1       = "segment 1"
	roleSegment2       = "segment 2"
)

type contactInfo struct {
	FullName  string
	Email     string
	Phone     string
	AltPhone  string
	Address   string
	Address2  string
	City      string
	State     string
	Zip       string
	RecordURL string
}

// contactLookup is the pure lookup structure built from the auxiliary sheet.
// Contact attributes keep the first occurrence per identity; role tags
// accumulate across every row mentioning that identity.
type contactLookup struct {
	contacts map[string]contactInfo
	roles    map[string]map[string]struct{}
	order    []string
}

func buildContactLookup(rows []Row) *contactLookup {
	l := &contactLookup{
		contacts: make(map[string]contactInfo),
		roles:    make(map[string]map[string]struct{}),
	}
	for _, row := range rows {
		personID := strings.TrimSpace(row[contactColPersonID])
		if personID == "" {
			continue
		}
		if _, seen := l.contacts[personID]; !seen {
			fullName := strings.TrimSpace(row[contactColFullName])
			if fullName == "" {
				fullName = strings.TrimSpace(row[contactColFullNameB])
			}
			l.contacts[personID] = contactInfo{
				FullName:  fullName,
				Email:     strings.TrimSpace(row[contactColEmail]),
				Phone:     strings.TrimSpace(row[contactColPhone]),
				AltPhone:  strings.TrimSpace(row[contactColAltPhone]),
				Address:   strings.TrimSpace(row[contactColAddress1]),
				Address2:  strings.TrimSpace(row[contactColAddress2]),
				City:      strings.TrimSpace(row[contactColCity]),
				State:     strings.TrimSpace(row[contactColState]),
				Zip:       strings.TrimSpace(row[contactColZip]),
				RecordURL: strings.TrimSpace(row[contactColRecordURL]),
			}
			l.order = append(l.order, personID)
		}
		if tag := strings.TrimSpace(row[contactColRole]); tag != "" {
			set, ok := l.roles[personID]
			if !ok {
				set = make(map[string]struct{})
				l.roles[personID] = set
			}
			set[tag] = struct{}{}
		}
	}
	return l
}

// contact returns the resolved attributes for an identity, if the auxiliary
// sheet carried any. Safe on a nil lookup (sheet absent).
func (l *contactLookup) contact(personID string) (contactInfo, bool) {
	if l == nil {
		return contactInfo{}, false
	}
	c, ok := l.contacts[personID]
	return c, ok
}

func (l *contactLookup) hasRole(personID, fragment string) bool {
	if l == nil {
		return false
	}
	fragment = strings.ToLower(fragment)
	for tag := range l.roles[personID] {
		if strings.Contains(strings.ToLower(tag), fragment) {
			return true
		}
	}
	return false
}

func (l *contactLookup) isRecipient(personID string) bool {
	return l.hasRole(personID, roleRecipient)
}

func (l *contactLookup) isSegmentContact(personID string) bool {
	return l.hasRole(personID, roleSegmentContact)
}

// segmentHint extracts which program segment a contact's tags point at.
// Returns nil when the tags name neither segment.
func (l *contactLookup) segmentHint(personID string) *int {
	if l.hasRole(personID, roleSegment1) {
		seg := 1
		return &seg
	}
	if l.hasRole(personID, roleSegment2) {
		seg := 2
		return &seg
	}
	return nil
}

// ids returns identities in first-seen sheet order, so synthesis downstream
// is deterministic.
func (l *contactLookup) ids() []string {
	if l == nil {
		return nil
	}
	return l.order
}
