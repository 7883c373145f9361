package plants

// DeviceState is where a discovered device stands before it joins a new plant.
type DeviceState int

const (
	// StateUncatalogued: no serial registry entry yet.
	StateUncatalogued DeviceState = iota + 1
	// StateUnclaimed: catalogued, no plant lists it as active.
	StateUnclaimed
	// StateClaimedElsewhere: catalogued and active on other plants.
	StateClaimedElsewhere
)

func (s DeviceState) String() string {
	switch s {
	case StateUncatalogued:
		return "uncatalogued"
	case StateUnclaimed:
		return "unclaimed"
	case StateClaimedElsewhere:
		return "claimed_elsewhere"
	default:
		return "unknown"
	}
}

// Transition derives the device state from its registered item code and the plants
// currently listing it as active.
func Transition(itemCode string, owners []string) DeviceState {
	if itemCode == "" {
		return StateUncatalogued
	}
	if len(owners) == 0 {
		return StateUnclaimed
	}
	return StateClaimedElsewhere
}

// Evict moves every active row of serial on other into its history table.
// A plant found through the active-equipment join must have active rows.
func Evict(other *Plant, serial string) error {
	if len(other.Active) == 0 {
		return consistencyf("plant %q has no active equipment but was found holding serial %q", other.Name, serial)
	}
	if !other.HasActive(serial) {
		return nil
	}
	var moved []ActiveEquipment
	for _, r := range other.Active {
		if r.SerialNumber == serial {
			moved = append(moved, r)
		}
	}
	for _, r := range moved {
		other.RemoveActive(r.Name)
		if !other.HasHistory(serial) {
			other.AddHistory(toHistory(r))
		}
	}
	return nil
}

// withoutName drops name from names.
func withoutName(names []string, name string) []string {
	out := names[:0:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
