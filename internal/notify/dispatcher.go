// Package notify delivers firing events through sound, system notifications
// and tab-title flashing.
package notify

import (
	"timekeeper/internal/logger"
	"timekeeper/internal/models"
)

// AttentionPrefix marks the flashing title.
const AttentionPrefix = "⏰ "

type SoundPlayer interface {
	Play() error
}

type SystemNotifier interface {
	Show(title, body, icon string) error
}

// PermissionSource reports the cached OS notification permission.
type PermissionSource interface {
	Permission() string
}

type TitleSink interface {
	SetTitle(title string)
}

// Visibility reports whether no client currently has the document focused.
type Visibility interface {
	Hidden() bool
}

type Options struct {
	Sound       SoundPlayer
	System      SystemNotifier
	Permissions PermissionSource
	Visibility  Visibility
	Flasher     *TitleFlasher
	Icon        string
	Log         *logger.Logger
}

// Dispatcher fans a notification out to every available channel. A failing
// channel is logged and skipped; the others still fire.
type Dispatcher struct {
	sound   SoundPlayer
	system  SystemNotifier
	perms   PermissionSource
	vis     Visibility
	flasher *TitleFlasher
	icon    string
	log     *logger.Logger
}

func NewDispatcher(opts Options) *Dispatcher {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{
		sound:   opts.Sound,
		system:  opts.System,
		perms:   opts.Permissions,
		vis:     opts.Visibility,
		flasher: opts.Flasher,
		icon:    opts.Icon,
		log:     log,
	}
}

// Notify never requests permission; it only shows a system notification
// when permission was already granted.
func (d *Dispatcher) Notify(title, body string) {
	if d.sound != nil {
		if err := d.sound.Play(); err != nil {
			d.log.Warnw("sound playback failed", "error", err)
		}
	}

	if d.system != nil && d.perms != nil && d.perms.Permission() == models.PermissionGranted {
		if err := d.system.Show(title, body, d.icon); err != nil {
			d.log.Warnw("system notification failed", "error", err)
		}
	}

	if d.flasher != nil && d.vis != nil && d.vis.Hidden() {
		label := title
		if label == "" {
			label = body
		}
		d.flasher.Start(AttentionPrefix + label)
	}
	d.log.Debugw("notification dispatched", "title", title, "body", body)
}

// Focus stops any title flashing and restores the original title.
func (d *Dispatcher) Focus() {
	if d.flasher != nil {
		d.flasher.Focus()
	}
}

// Stop ends any title flash on shutdown so no repeating callback outlives
// the process's clients.
func (d *Dispatcher) Stop() {
	if d.flasher != nil && d.flasher.Focus() {
		d.log.Infow("title flash stopped on shutdown")
	}
}
