package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/erazemk/loja/internal/listctl"
)

// emptyList is shown instead of a table when a collection has no records.
const emptyList = "No records to display!"

// page is one admin screen backed by a single list controller.
type page interface {
	name() string
	title() string
	init(ctx context.Context)
	count() int
	render(w io.Writer)
	renderDraft(w io.Writer) error
	beginCreate()
	beginEdit(id int64) error
	set(field, value string) error
	save(ctx context.Context) error
	cancel()
	remove(ctx context.Context, id int64) error
	dismiss()
	fieldNames() []string
}

type column[T any] struct {
	title string
	value func(T) string
}

// resourcePage renders a listctl.Controller as a table and maps console
// commands onto it.
type resourcePage[T listctl.Entity] struct {
	slug    string
	heading string
	ctl     *listctl.Controller[T]
	columns []column[T]
	fields  []column[T]
}

func (p *resourcePage[T]) name() string  { return p.slug }
func (p *resourcePage[T]) title() string { return p.heading }
func (p *resourcePage[T]) count() int    { return len(p.ctl.Items()) }
func (p *resourcePage[T]) beginCreate()  { p.ctl.BeginCreate() }
func (p *resourcePage[T]) cancel()       { p.ctl.CancelEdit() }
func (p *resourcePage[T]) dismiss()      { p.ctl.DismissNotifications() }

func (p *resourcePage[T]) init(ctx context.Context) {
	p.ctl.Initialize(ctx)
}

func (p *resourcePage[T]) fieldNames() []string {
	names := make([]string, len(p.fields))
	for i, f := range p.fields {
		names[i] = f.title
	}
	return names
}

func (p *resourcePage[T]) beginEdit(id int64) error {
	record, ok := p.ctl.Find(id)
	if !ok {
		return fmt.Errorf("no %s record with id %d", p.slug, id)
	}
	return p.ctl.BeginEdit(record)
}

func (p *resourcePage[T]) set(field, value string) error {
	err := p.ctl.SetDraftField(field, value)
	if errors.Is(err, listctl.ErrNoDraft) {
		return errors.New("nothing is being edited, use new or edit first")
	}
	return err
}

func (p *resourcePage[T]) save(ctx context.Context) error {
	if err := p.ctl.SaveDraft(ctx); err != nil {
		if errors.Is(err, listctl.ErrNoDraft) {
			return errors.New("nothing to save")
		}
		return err
	}
	return nil
}

func (p *resourcePage[T]) remove(ctx context.Context, id int64) error {
	record, ok := p.ctl.Find(id)
	if !ok {
		return fmt.Errorf("no %s record with id %d", p.slug, id)
	}
	return p.ctl.Delete(ctx, record)
}

func (p *resourcePage[T]) render(w io.Writer) {
	s := p.ctl.Snapshot()

	fmt.Fprintf(w, "== %s ==\n", p.heading)
	renderBanners(w, s.ErrorMessage, s.SuccessMessage)
	if s.Loading {
		fmt.Fprintln(w, "Loading...")
	}

	items := listctl.SortByName(s.Items)
	if len(items) == 0 {
		fmt.Fprintln(w, emptyList)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(p.columns))
	for i, c := range p.columns {
		headers[i] = c.title
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, item := range items {
		cells := make([]string, len(p.columns))
		for i, c := range p.columns {
			cells[i] = c.value(item)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

func (p *resourcePage[T]) renderDraft(w io.Writer) error {
	draft, ok := p.ctl.Draft()
	if !ok {
		return errors.New("nothing is being edited")
	}

	if id := draft.GetID(); id != 0 {
		fmt.Fprintf(w, "Editing %s %d\n", p.slug, id)
	} else {
		fmt.Fprintf(w, "New %s record\n", p.slug)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range p.fields {
		fmt.Fprintf(tw, "  %s\t%s\n", f.title, f.value(draft))
	}
	tw.Flush()
	return nil
}

func renderBanners(w io.Writer, errMsg, okMsg string) {
	if errMsg != "" {
		fmt.Fprintf(w, "[error] %s\n", errMsg)
	}
	if okMsg != "" {
		fmt.Fprintf(w, "[ok] %s\n", okMsg)
	}
}
