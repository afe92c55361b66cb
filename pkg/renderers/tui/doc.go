// Package tui fills form stores interactively through survey prompts and
// adapts the same prompts into the confirmation and notification dialogs a
// submission controller needs.
package tui
