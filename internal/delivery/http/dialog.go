package api

import (
	"context"
	"sync"

	"plant-sync/internal/core/plants"

	"github.com/rs/zerolog"
)

// mpptPrompt tells the client which device needs an MPPT choice and what the options are.
type mpptPrompt struct {
	Title        string   `json:"title" example:"Select the number of MPPTs"`
	SerialNumber string   `json:"serial_number" example:"QMB2C4R07D"`
	Model        string   `json:"model" example:"MIN 5000TL-X"`
	Options      []string `json:"options" example:"2,3"`
}

// requestDialog answers the workflow's prompts from the request body and collects its
// messages for the response.
type requestDialog struct {
	onDuplicate string
	mppt        map[string]string
	lg          zerolog.Logger

	mu       sync.Mutex
	frozen   bool
	messages []string
	redirect string
	prompt   *mpptPrompt
}

var _ plants.DialogHost = (*requestDialog)(nil)

func newRequestDialog(onDuplicate string, mppt map[string]string, lg zerolog.Logger) *requestDialog {
	return &requestDialog{onDuplicate: onDuplicate, mppt: mppt, lg: lg}
}

func (d *requestDialog) Freeze(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frozen = true
	d.lg.Debug().Str("status", msg).Msg("busy")
}

// Unfreeze may be called more than once.
func (d *requestDialog) Unfreeze() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frozen = false
}

func (d *requestDialog) Msgprint(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, msg)
}

func (d *requestDialog) ConfirmRedirect(_ context.Context, existing string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, "A plant with this plant id already exists: "+existing)
	return d.onDuplicate == onDuplicateRedirect, nil
}

func (d *requestDialog) PickMPPT(_ context.Context, device plants.Device, options []string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if choice := d.mppt[device.SerialNumber]; choice != "" {
		return choice, nil
	}
	d.prompt = &mpptPrompt{
		Title:        "Select the number of MPPTs",
		SerialNumber: device.SerialNumber,
		Model:        device.DeviceModel,
		Options:      options,
	}
	return "", nil
}

func (d *requestDialog) Redirect(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.redirect = name
}

// result snapshots what the workflow reported.
func (d *requestDialog) result() (messages []string, redirect string, prompt *mpptPrompt) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.messages...), d.redirect, d.prompt
}
