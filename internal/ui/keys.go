package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"todotree/internal/config"
)

type keyMap struct {
	Quit    key.Binding
	Up      key.Binding
	Down    key.Binding
	Detail  key.Binding
	Toggle  key.Binding
	Add     key.Binding
	Delete  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Yes     key.Binding
	No      key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys(uniq(k.Quit, "ctrl+c")...), key.WithHelp(k.Quit, "quit")),
		Up:      key.NewBinding(key.WithKeys(uniq(k.Up, "k")...), key.WithHelp(k.Up, "up")),
		Down:    key.NewBinding(key.WithKeys(uniq(k.Down, "j")...), key.WithHelp(k.Down, "down")),
		Detail:  key.NewBinding(key.WithKeys(k.Detail), key.WithHelp(k.Detail, "details")),
		Toggle:  key.NewBinding(key.WithKeys(k.Toggle), key.WithHelp(k.Toggle, "toggle")),
		Add:     key.NewBinding(key.WithKeys(k.Add), key.WithHelp(k.Add, "add task")),
		Delete:  key.NewBinding(key.WithKeys(k.Delete), key.WithHelp(k.Delete, "delete")),
		Confirm: key.NewBinding(key.WithKeys(k.Confirm), key.WithHelp(k.Confirm, "confirm")),
		Cancel:  key.NewBinding(key.WithKeys(uniq(k.Cancel, "esc")...), key.WithHelp(k.Cancel, "cancel")),
		Yes:     key.NewBinding(key.WithKeys("y", "Y", "1"), key.WithHelp("y", "yes")),
		No:      key.NewBinding(key.WithKeys("n", "N", "2"), key.WithHelp("n", "no")),
	}
}

func uniq(keys ...string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func (k keyMap) mainHelp() string {
	return fmt.Sprintf("%s/%s navigate • %s details • %s toggle • %s add • %s delete • %s quit",
		k.Up.Help().Key, k.Down.Help().Key, k.Detail.Help().Key, k.Toggle.Help().Key,
		k.Add.Help().Key, k.Delete.Help().Key, k.Quit.Help().Key)
}
