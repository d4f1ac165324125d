package services

import (
	"bookstore/internal/apperr"
	"bookstore/internal/models"
	"bookstore/internal/store"

	"github.com/rs/zerolog"
)

type CatalogService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewCatalogService(st store.Store, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		store:  st,
		logger: logger,
	}
}

func validateBook(req *models.BookRequest) error {
	if req.Title == "" {
		return apperr.Validation("title is required")
	}
	if req.Author == "" {
		return apperr.Validation("author is required")
	}
	if req.ISBN == "" {
		return apperr.Validation("ISBN is required")
	}
	if req.Price <= 0 {
		return apperr.Validation("price must be greater than zero")
	}
	if req.Stock < 0 {
		return apperr.Validation("stock cannot be negative")
	}
	return nil
}

func (s *CatalogService) isbnTaken(isbn string, excludeID int) (bool, error) {
	existing, err := s.store.GetBookByISBN(isbn)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}

func (s *CatalogService) CreateBook(req *models.BookRequest) (*models.Book, error) {
	if err := validateBook(req); err != nil {
		return nil, err
	}

	taken, err := s.isbnTaken(req.ISBN, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("a book with ISBN %s already exists", req.ISBN)
	}

	book, err := s.store.CreateBook(&models.Book{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
		Price:  req.Price,
		Stock:  req.Stock,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("title", req.Title).Msg("Error creating book")
		return nil, err
	}

	s.logger.Info().Int("book_id", book.ID).Str("title", book.Title).Msg("Book created")
	return book, nil
}

func (s *CatalogService) GetBook(id int) (*models.Book, error) {
	return s.store.GetBook(id)
}

func (s *CatalogService) ListBooks() ([]*models.Book, error) {
	return s.store.ListBooks()
}

func (s *CatalogService) UpdateBook(id int, req *models.BookRequest) (*models.Book, error) {
	if err := validateBook(req); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(id)
	if err != nil {
		return nil, err
	}

	taken, err := s.isbnTaken(req.ISBN, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("a book with ISBN %s already exists", req.ISBN)
	}

	book.Title = req.Title
	book.Author = req.Author
	book.ISBN = req.ISBN
	book.Price = req.Price
	book.Stock = req.Stock

	if err := s.store.UpdateBook(book); err != nil {
		s.logger.Error().Err(err).Int("book_id", id).Msg("Error updating book")
		return nil, err
	}

	s.logger.Info().Int("book_id", id).Str("title", book.Title).Msg("Book updated")
	return book, nil
}

func (s *CatalogService) DeleteBook(id int) error {
	if err := s.store.DeleteBook(id); err != nil {
		return err
	}
	s.logger.Info().Int("book_id", id).Msg("Book deleted")
	return nil
}

// ReplaceBooks swaps the whole catalog. All entries are validated before
// any write happens; duplicate ISBNs inside the payload are rejected.
func (s *CatalogService) ReplaceBooks(reqs []*models.BookRequest) ([]*models.Book, error) {
	seen := make(map[string]bool, len(reqs))
	books := make([]*models.Book, 0, len(reqs))
	for _, req := range reqs {
		if err := validateBook(req); err != nil {
			return nil, err
		}
		if seen[req.ISBN] {
			return nil, apperr.Conflict("duplicate ISBN %s in request", req.ISBN)
		}
		seen[req.ISBN] = true
		books = append(books, &models.Book{
			Title:  req.Title,
			Author: req.Author,
			ISBN:   req.ISBN,
			Price:  req.Price,
			Stock:  req.Stock,
		})
	}

	created, err := s.store.ReplaceBooks(books)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error replacing catalog")
		return nil, err
	}

	s.logger.Info().Int("count", len(created)).Msg("Catalog replaced")
	return created, nil
}

func (s *CatalogService) DeleteAllBooks() error {
	if err := s.store.DeleteAllBooks(); err != nil {
		return err
	}
	s.logger.Info().Msg("Catalog cleared")
	return nil
}
