package attendance

import (
	"fmt"

	"catering-backoffice/internal/database/models"
)

// staffDirectory resolves import names to staff. It is built once per batch
// from every staff record regardless of status.
type staffDirectory struct {
	byName map[string][]models.Staff
	byID   map[string]models.Staff
}

func newStaffDirectory(staff []models.Staff) staffDirectory {
	d := staffDirectory{
		byName: make(map[string][]models.Staff, len(staff)),
		byID:   make(map[string]models.Staff, len(staff)),
	}
	for _, s := range staff {
		d.byName[s.Name] = append(d.byName[s.Name], s)
		d.byID[s.ID] = s
	}
	return d
}

// resolve matches name exactly. Names shared by several staff need an
// explicit id; an id must belong to the named staff when both are given.
func (d staffDirectory) resolve(name, id string) (models.Staff, *Issue) {
	if id != "" {
		s, ok := d.byID[id]
		if !ok {
			return models.Staff{}, issue(CodeUnknownStaff, "staff not found: %s", id)
		}
		if name != "" && s.Name != name {
			return models.Staff{}, issue(CodeUnknownStaff, "staff not found: %s (id %s belongs to %s)", name, id, s.Name)
		}
		return s, nil
	}

	matches := d.byName[name]
	switch len(matches) {
	case 0:
		return models.Staff{}, issue(CodeUnknownStaff, "staff not found: %s", name)
	case 1:
		return matches[0], nil
	default:
		return models.Staff{}, issue(CodeAmbiguousStaff,
			"ambiguous staff name: %s matches %d staff, supply staffId", name, len(matches))
	}
}

func issue(code, format string, args ...any) *Issue {
	return &Issue{Code: code, Message: fmt.Sprintf(format, args...)}
}
