// Package todo is the demo application: a to-do list built on the template
// engine. It is what the CLI demo and the playground serve.
package todo

import (
	"html"
	"log/slog"

	"github.com/vango-dev/cellbind/pkg/reactive"
	"github.com/vango-dev/cellbind/pkg/template"
)

// Item is one to-do entry. Completed is its own cell so a checkbox can bind
// to it directly.
type Item struct {
	Text      string
	Completed *reactive.Cell[bool]
}

// State is a plain copy of an item, for logging and snapshots.
type State struct {
	Text      string `json:"text" msgpack:"text"`
	Completed bool   `json:"completed" msgpack:"completed"`
}

// App holds the demo's cells.
type App struct {
	e      *template.Engine
	logger *slog.Logger

	// Draft is bound to the new-item input.
	Draft *reactive.Cell[string]
	// Items is the list the page renders.
	Items *reactive.Cell[[]Item]
}

// New creates an empty app rendering through e.
func New(e *template.Engine) *App {
	return &App{
		e:      e,
		logger: e.Logger().With("component", "todo"),
		Draft:  reactive.New(""),
		Items:  reactive.New([]Item(nil)),
	}
}

// Toolbar is the page header. It emits "clear" when its button is pressed.
var Toolbar = template.DefineType[toolbar]("toolbar")

type toolbar struct {
	template.Emitter
}

func (t *toolbar) Render(p template.Props) *template.Fragment {
	return t.Engine().Compile(
		[]string{`<header><h1>`, `</h1><button id="clear" on:click=`, `>Clear completed</button></header>`},
		html.EscapeString(p.String("title")),
		func() { t.Emit("clear", nil) },
	)
}

// Render builds the page.
func (a *App) Render() *template.Fragment {
	return a.e.Compile(
		[]string{
			`<main class="container"><`,
			` title="Todos" on:clear=`,
			`></`,
			`><input id="draft" bind:value=`,
			`><button id="add" on:click=`,
			`>Add Todo</button><ul id="items">`,
			`</ul><button id="log" on:click=`,
			`>Log</button></main>`,
		},
		Toolbar, a.ClearCompleted, Toolbar,
		a.Draft,
		a.Add,
		template.EachCell(a.e, a.Items, a.row),
		a.Log,
	)
}

func (a *App) row(item Item, i int) any {
	return a.e.Compile(
		[]string{
			`<li style="display: flex; flex-direction: row; justify-content: space-between;">`,
			`<input type="checkbox" bind:checked=`,
			`><button class="remove" on:click=`,
			`>X</button></li>`,
		},
		html.EscapeString(item.Text),
		item.Completed,
		func() { a.Remove(i) },
	)
}

// Add appends the draft as a new item.
func (a *App) Add() {
	text := a.Draft.Get()
	a.Items.Update(func(items []Item) []Item {
		next := make([]Item, 0, len(items)+1)
		next = append(next, items...)
		return append(next, Item{Text: text, Completed: reactive.New(false)})
	})
	a.logger.Debug("item added", "text", text)
}

// Remove deletes the item at index i. Out of range is a no-op.
func (a *App) Remove(i int) {
	a.Items.Update(func(items []Item) []Item {
		if i < 0 || i >= len(items) {
			return items
		}
		next := make([]Item, 0, len(items)-1)
		next = append(next, items[:i]...)
		return append(next, items[i+1:]...)
	})
}

// ClearCompleted removes every checked item.
func (a *App) ClearCompleted() {
	a.Items.Update(func(items []Item) []Item {
		var next []Item
		for _, it := range items {
			if !it.Completed.Get() {
				next = append(next, it)
			}
		}
		return next
	})
}

// Log writes the current items at info level.
func (a *App) Log() {
	a.logger.Info("todos", "items", a.States())
}

// States copies the items out of their cells.
func (a *App) States() []State {
	items := a.Items.Get()
	out := make([]State, len(items))
	for i, it := range items {
		out[i] = State{Text: it.Text, Completed: it.Completed.Get()}
	}
	return out
}

// Restore replaces the items with states, e.g. from a snapshot.
func (a *App) Restore(states []State) {
	items := make([]Item, len(states))
	for i, s := range states {
		items[i] = Item{Text: s.Text, Completed: reactive.New(s.Completed)}
	}
	a.Items.Set(items)
}
