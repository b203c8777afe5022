package view

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/tbrandt/shelfshare/internal/domain"
	"github.com/tbrandt/shelfshare/internal/infra/logging"
	"github.com/tbrandt/shelfshare/internal/svc/bookclient"
)

// BookForm holds the add-book input. All fields are required.
type BookForm struct {
	Title       string  `validate:"required"`
	Author      string  `validate:"required"`
	ISBN        string  `validate:"required"`
	PricePerDay float64 `validate:"required"`
}

// MyBooksView lists the books the authenticated user owns and manages the
// listings: add, update, remove.
type MyBooksView struct {
	client   bookclient.Client
	validate *formValidator
	log      logging.Logger

	Books []domain.Book
	Form  BookForm
}

var _ View = (*MyBooksView)(nil)

// NewMyBooksView creates the my-books screen backed by the given API client.
func NewMyBooksView(client bookclient.Client) *MyBooksView {
	return &MyBooksView{
		client:   client,
		validate: newFormValidator(),
		log:      logging.GetLogger("view.mybooks"),
	}
}

// Route implements View.Route.
func (v *MyBooksView) Route() string { return RouteMyBooks }

// Mount implements View.Mount by fetching the owned books. On failure the
// previous list is kept.
func (v *MyBooksView) Mount(ctx context.Context) error {
	books, err := v.client.MyBooks(ctx)
	if err != nil {
		return fmt.Errorf("load my books: %w", err)
	}

	v.Books = books

	return nil
}

// AddBook validates the form and lists a new book. On success the form is
// cleared and the list re-fetched once.
func (v *MyBooksView) AddBook(ctx context.Context) error {
	if err := v.validate.Validate(v.Form); err != nil {
		return fmt.Errorf("validate book form: %w", err)
	}

	if _, err := v.client.CreateBook(ctx, v.newBook()); err != nil {
		v.log.ErrorContext(ctx, "add book failed",
			logging.Group("book", "isbn", v.Form.ISBN), "error", err)

		return err
	}

	v.Form = BookForm{}

	return v.refresh(ctx)
}

// UpdateBook replaces the listing fields of an owned book with the current
// form values, then re-fetches the list once.
func (v *MyBooksView) UpdateBook(ctx context.Context, bookID string) error {
	if err := v.validate.Validate(v.Form); err != nil {
		return fmt.Errorf("validate book form: %w", err)
	}

	if !v.owns(bookID) {
		return fmt.Errorf("%w: %s", ErrBookNotListed, bookID)
	}

	if _, err := v.client.UpdateBook(ctx, bookID, v.newBook()); err != nil {
		v.log.ErrorContext(ctx, "update book failed",
			logging.Group("book", "id", bookID), "error", err)

		return err
	}

	v.Form = BookForm{}

	return v.refresh(ctx)
}

// RemoveBook deletes an owned book listing, then re-fetches the list once.
func (v *MyBooksView) RemoveBook(ctx context.Context, bookID string) error {
	if !v.owns(bookID) {
		return fmt.Errorf("%w: %s", ErrBookNotListed, bookID)
	}

	if err := v.client.DeleteBook(ctx, bookID); err != nil {
		v.log.ErrorContext(ctx, "remove book failed",
			logging.Group("book", "id", bookID), "error", err)

		return err
	}

	return v.refresh(ctx)
}

func (v *MyBooksView) newBook() domain.NewBook {
	return domain.NewBook{
		Title:       v.Form.Title,
		Author:      v.Form.Author,
		ISBN:        v.Form.ISBN,
		PricePerDay: v.Form.PricePerDay,
	}
}

func (v *MyBooksView) owns(bookID string) bool {
	for _, book := range v.Books {
		if book.ID == bookID {
			return true
		}
	}

	return false
}

func (v *MyBooksView) refresh(ctx context.Context) error {
	if err := v.Mount(ctx); err != nil {
		v.log.ErrorContext(ctx, "refresh after mutation failed", "error", err)
	}

	return nil
}

// Render implements View.Render.
func (v *MyBooksView) Render(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "My Books"); err != nil {
		return fmt.Errorf("render my books: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tISBN\tPRICE/DAY")

	for _, book := range v.Books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%.2f\n",
			book.ID, book.Title, book.Author, book.ISBN, book.PricePerDay)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render my books: %w", err)
	}

	if _, err := fmt.Fprintln(w, "usage: add <title> <author> <isbn> <price-per-day>"); err != nil {
		return fmt.Errorf("render my books: %w", err)
	}

	return nil
}
