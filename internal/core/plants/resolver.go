package plants

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const processingMsg = "Processing devices..."

// Resolution reports what a resolve run did.
type Resolution struct {
	Added   int      `json:"added"`
	Evicted []string `json:"evicted,omitempty"`
}

// Resolver discovers the devices behind a serial number, fills a new plant with them and
// evicts them from any other plant holding them as active.
type Resolver struct {
	store     Store
	api       MonitoringAPI
	validator *SerialValidator
	lg        zerolog.Logger

	// lockPlant claims an existing plant before it is loaded for eviction.
	lockPlant func(name string) (func(), error)
}

func NewResolver(store Store, api MonitoringAPI, validator *SerialValidator, lg zerolog.Logger) *Resolver {
	return &Resolver{
		store:     store,
		api:       api,
		validator: validator,
		lg:        lg.With().Str("component", "resolver").Logger(),
		lockPlant: func(string) (func(), error) { return func() {}, nil },
	}
}

// ResolveAndAssign populates the unsaved plant from the devices reporting under serial.
// Other plants losing a device are persisted here; plant itself is saved by the caller.
func (r *Resolver) ResolveAndAssign(ctx context.Context, serial string, plant *Plant, dialog DialogHost) (*Resolution, error) {
	sn, err := r.validator.Validate(serial)
	if err != nil {
		dialog.Msgprint("Invalid serial number")
		return nil, err
	}
	lg := r.lg.With().Str("serial", sn).Str("plant", plant.Name).Logger()

	devices, err := r.api.DevicesBySerial(ctx, sn)
	if err != nil {
		lg.Warn().Err(err).Msg("fetch devices")
		dialog.Msgprint(fmt.Sprintf("Error fetching devices: %v", err))
		devices = nil
	}
	if len(devices) == 0 {
		dialog.Msgprint("No devices found for the given serial number.")
		return nil, fmt.Errorf("%w: no devices for serial %s", ErrNotFound, sn)
	}

	first := devices[0]
	info, err := r.api.PlantInfo(ctx, first.SerialNumber)
	if err != nil {
		lg.Warn().Err(err).Str("device", first.SerialNumber).Msg("fetch plant info")
		dialog.Msgprint(fmt.Sprintf("Error fetching plant data for device %q: %v", first.SerialNumber, err))
		info = PlantInfo{}
	}
	if info.Empty() {
		dialog.Msgprint("No plant data found for the given serial number.")
		return nil, fmt.Errorf("%w: no plant data for serial %s", ErrNotFound, sn)
	}

	if err := r.checkDuplicate(ctx, info.PlantID, dialog); err != nil {
		return nil, err
	}

	plant.PlantID = info.PlantID
	plant.AccountName = info.AccountName
	plant.PlantName = info.PlantName

	pending := make(map[string]*Plant)
	var order []string
	var releases []func()
	defer func() {
		for _, release := range releases {
			release()
		}
	}()
	var rows []ActiveEquipment
	queued := make(map[string]bool, len(devices))

	for _, d := range devices {
		if d.SerialNumber == "" || queued[d.SerialNumber] {
			continue
		}
		state, owners, err := r.stateOf(ctx, d, plant.Name, dialog)
		if err != nil {
			return nil, err
		}
		lg.Debug().Str("device", d.SerialNumber).Stringer("state", state).Msg("device state")

		switch state {
		case StateUncatalogued:
			if err := r.catalog(ctx, d, dialog); err != nil {
				return nil, err
			}
		case StateClaimedElsewhere:
			for _, name := range owners {
				other, ok := pending[name]
				if !ok {
					release, err := r.lockPlant(name)
					if err != nil {
						return nil, err
					}
					releases = append(releases, release)
					other, err = r.store.GetPlant(ctx, name)
					if err != nil {
						return nil, external("get plant "+name, err)
					}
				}
				if err := Evict(other, d.SerialNumber); err != nil {
					dialog.Msgprint(err.Error())
					return nil, err
				}
				if !ok {
					pending[name] = other
					order = append(order, name)
				}
			}
		}

		queued[d.SerialNumber] = true
		rows = append(rows, ActiveEquipment{
			SerialNumber: d.SerialNumber,
			Model:        d.DeviceModel,
			Status:       d.Status,
		})
	}

	if err := r.persist(ctx, pending, order); err != nil {
		return nil, err
	}

	plant.AddActive(rows...)
	lg.Info().Int("added", len(rows)).Strs("evicted", order).Msg("resolved")
	return &Resolution{Added: len(rows), Evicted: order}, nil
}

func (r *Resolver) checkDuplicate(ctx context.Context, plantID string, dialog DialogHost) error {
	existing, err := r.store.FindPlantsByPlantID(ctx, plantID)
	if err != nil {
		return external("find plants by plant id", err)
	}
	if len(existing) == 0 {
		return nil
	}
	name := existing[0].Name
	dialog.Unfreeze()
	ok, err := dialog.ConfirmRedirect(ctx, name)
	if err != nil {
		return fmt.Errorf("confirm duplicate: %w", err)
	}
	if ok {
		dialog.Redirect(name)
	}
	return &DuplicateError{PlantID: plantID, Existing: name, Redirected: ok}
}

func (r *Resolver) stateOf(ctx context.Context, d Device, self string, dialog DialogHost) (DeviceState, []string, error) {
	code, err := r.store.SerialItemCode(ctx, d.SerialNumber)
	if err != nil {
		r.lg.Warn().Err(err).Str("device", d.SerialNumber).Msg("fetch item code by serial")
		dialog.Msgprint(fmt.Sprintf("Error fetching item code for serial %s: %v", d.SerialNumber, err))
		code = ""
	}
	if code == "" {
		return Transition(code, nil), nil, nil
	}
	owners, err := r.store.ActiveSerialOwners(ctx, d.SerialNumber)
	if err != nil {
		return 0, nil, external("find plants holding "+d.SerialNumber, err)
	}
	owners = withoutName(owners, self)
	return Transition(code, owners), owners, nil
}

// catalog registers the serial under the catalog item matching the device model.
func (r *Resolver) catalog(ctx context.Context, d Device, dialog DialogHost) error {
	items, err := r.store.ItemsByName(ctx, d.DeviceModel)
	if err != nil {
		r.lg.Warn().Err(err).Str("model", d.DeviceModel).Msg("fetch items")
		dialog.Msgprint(fmt.Sprintf("Error fetching item code using device model as reference: %v", err))
		items = nil
	}
	code, err := r.pickItem(ctx, d, items, dialog)
	if err != nil {
		return err
	}
	if code == "" {
		dialog.Msgprint(fmt.Sprintf("Item %q not found.", d.DeviceModel))
		return fmt.Errorf("%w: no item for device %s with model %q", ErrNotFound, d.SerialNumber, d.DeviceModel)
	}
	if err := r.store.InsertSerialNo(ctx, &SerialNo{SerialNo: d.SerialNumber, ItemCode: code}); err != nil {
		dialog.Msgprint(fmt.Sprintf("Failed to create Serial No %q with model %q.", d.SerialNumber, d.DeviceModel))
		return external(fmt.Sprintf("create serial no %s with model %q", d.SerialNumber, d.DeviceModel), err)
	}
	return nil
}

// pickItem returns the only candidate, or asks for the MPPT count when several share the model.
func (r *Resolver) pickItem(ctx context.Context, d Device, items []Item, dialog DialogHost) (string, error) {
	switch len(items) {
	case 0:
		return "", nil
	case 1:
		return items[0].ItemCode, nil
	}

	var options []string
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.MPPT == "" || seen[it.MPPT] {
			continue
		}
		seen[it.MPPT] = true
		options = append(options, it.MPPT)
	}
	if len(options) == 0 {
		dialog.Msgprint(fmt.Sprintf("Items named %q have no MPPT count to choose from.", d.DeviceModel))
		return "", fmt.Errorf("%w: %d catalog items named %q carry no mppt count for device %s",
			ErrNotFound, len(items), d.DeviceModel, d.SerialNumber)
	}

	dialog.Unfreeze()
	choice, err := dialog.PickMPPT(ctx, d, options)
	dialog.Freeze(processingMsg)
	if err != nil {
		return "", fmt.Errorf("pick mppt: %w", err)
	}
	if choice == "" {
		return "", nil
	}
	for _, it := range items {
		if it.MPPT == choice {
			return it.ItemCode, nil
		}
	}
	return "", nil
}

// persist writes the other plants concurrently; they never overlap.
func (r *Resolver) persist(ctx context.Context, pending map[string]*Plant, order []string) error {
	if len(order) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range order {
		other := pending[name]
		g.Go(func() error {
			if err := r.store.UpdatePlantEquipment(gctx, other.Name, other.Active, other.History); err != nil {
				return external("update plant "+other.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
