package usecase

import (
	"context"
	"time"

	"lumo-api/internal/data/entity"
	"lumo-api/internal/data/repository"
	"lumo-api/internal/dto/request"
	"lumo-api/internal/dto/response"
	"lumo-api/pkg/apperror"
	"lumo-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type MovieService interface {
	GetMovies(ctx context.Context, query *request.MovieListQuery, page *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovieByID(ctx context.Context, movieID string) (*response.MovieDetailResponse, error)
	GetGenres(ctx context.Context) ([]response.GenreResponse, error)

	// Admin endpoints
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeactivateMovie(ctx context.Context, movieID string) error
	CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error)
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMovies(ctx context.Context, query *request.MovieListQuery, page *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	// 1. Validate filters
	if errs := utils.ValidateStruct(query); len(errs) > 0 {
		s.log.Warn("Movie list validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	filter, err := s.buildFilter(query)
	if err != nil {
		return nil, err
	}

	limit := page.Limit()
	offset := page.Offset()

	// 2. Fetch the page and the total
	movies, err := s.repo.Movie.FindAll(ctx, *filter, offset, limit)
	if err != nil {
		s.log.Error("Failed to get movies",
			zap.Error(err),
			zap.Int("page", page.Page),
			zap.Int("per_page", page.PerPage),
		)
		return nil, apperror.Internal(err)
	}

	total, err := s.repo.Movie.CountAll(ctx, *filter)
	if err != nil {
		s.log.Error("Failed to count movies", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	// 3. Load genres for the whole page in one query
	movieIDs := make([]uuid.UUID, len(movies))
	for i, movie := range movies {
		movieIDs[i] = movie.ID
	}

	genresByMovie, err := s.repo.MovieGenre.FindGenresByMovieIDs(ctx, movieIDs)
	if err != nil {
		s.log.Warn("Failed to load genres for movie page", zap.Error(err))
		genresByMovie = map[uuid.UUID][]*entity.Genre{}
	}

	movieResponses := make([]response.MovieResponse, len(movies))
	for i, movie := range movies {
		movieResponses[i] = response.MovieToResponse(movie, genresByMovie[movie.ID])
	}

	s.log.Info("Movies retrieved",
		zap.Int("count", len(movies)),
		zap.Int64("total", total),
		zap.Int("page", page.Page),
		zap.Int("per_page", page.PerPage),
	)

	return response.NewPaginatedResponse(movieResponses, page.Page, page.PerPage, total), nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID string) (*response.MovieDetailResponse, error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		s.log.Warn("Invalid movie ID format", zap.String("movie_id", movieID), zap.Error(err))
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "invalid movie id")
	}

	movie, err := s.repo.Movie.FindActiveByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get movie by ID", zap.Error(err), zap.String("movie_id", movieID))
		return nil, apperror.Internal(err)
	}
	if movie == nil {
		return nil, apperror.NotFound(apperror.CodeMovieNotFound, "movie not found")
	}

	genres, err := s.repo.Genre.FindByMovieID(ctx, movie.ID)
	if err != nil {
		s.log.Warn("Failed to get genres for movie", zap.Error(err), zap.String("movie_id", movieID))
	}

	s.log.Info("Movie retrieved",
		zap.String("movie_id", movieID),
		zap.String("title", movie.Title),
	)

	detail := response.MovieToDetailResponse(movie, genres)
	return &detail, nil
}

func (s *movieService) GetGenres(ctx context.Context) ([]response.GenreResponse, error) {
	genres, err := s.repo.Genre.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to get genres", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	return response.GenresToResponse(genres), nil
}

// ==================== ADMIN METHODS ====================

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	// 1. Validate request data
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create movie validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	releaseDate, err := time.Parse("2006-01-02", req.ReleaseDate)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "release_date must be YYYY-MM-DD")
	}

	rating, err := parseRating(req.Rating)
	if err != nil {
		return nil, err
	}

	// 2. All referenced genres must exist
	genreUUIDs, genres, err := s.resolveGenres(ctx, req.GenreIDs)
	if err != nil {
		return nil, err
	}

	// 3. Create movie
	now := time.Now()
	movie := &entity.Movie{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		ReleaseDate:     releaseDate,
		Rating:          rating,
		PosterURL:       req.PosterURL,
		TrailerURL:      req.TrailerURL,
		IsActive:        true,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		s.log.Error("Failed to create movie", zap.Error(err), zap.String("title", req.Title))
		return nil, apperror.Internal(err)
	}

	// 4. Link genres in batch
	if len(genreUUIDs) > 0 {
		if err := s.linkGenres(ctx, movie.ID, genreUUIDs, now); err != nil {
			return nil, err
		}
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
		zap.Int("genre_count", len(genreUUIDs)),
	)

	movieResp := response.MovieToResponse(movie, genres)
	return &movieResp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	// 1. Validate request data
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update movie validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "invalid movie id")
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.String("movie_id", movieID))
		return nil, apperror.Internal(err)
	}
	if movie == nil {
		return nil, apperror.NotFound(apperror.CodeMovieNotFound, "movie not found")
	}

	// 2. Apply partial updates only for provided fields
	updated := false

	if req.Title != nil && *req.Title != movie.Title {
		movie.Title = *req.Title
		updated = true
	}
	if req.Description != nil {
		movie.Description = req.Description
		updated = true
	}
	if req.DurationMinutes != nil && *req.DurationMinutes != movie.DurationMinutes {
		movie.DurationMinutes = *req.DurationMinutes
		updated = true
	}
	if req.ReleaseDate != nil {
		releaseDate, err := time.Parse("2006-01-02", *req.ReleaseDate)
		if err != nil {
			return nil, apperror.Validation(apperror.CodeInvalidRequest, "release_date must be YYYY-MM-DD")
		}
		movie.ReleaseDate = releaseDate
		updated = true
	}
	if req.Rating != nil {
		rating, err := parseRating(req.Rating)
		if err != nil {
			return nil, err
		}
		movie.Rating = rating
		updated = true
	}
	if req.PosterURL != nil {
		movie.PosterURL = req.PosterURL
		updated = true
	}
	if req.TrailerURL != nil {
		movie.TrailerURL = req.TrailerURL
		updated = true
	}
	if req.IsActive != nil && *req.IsActive != movie.IsActive {
		movie.IsActive = *req.IsActive
		updated = true
	}

	if updated {
		movie.UpdatedAt = time.Now()
		if err := s.repo.Movie.Update(ctx, movie); err != nil {
			s.log.Error("Failed to update movie", zap.Error(err), zap.String("movie_id", movieID))
			return nil, apperror.Internal(err)
		}
	}

	// 3. Replace genre links when the field is present
	if req.GenreIDs != nil {
		genreUUIDs, _, err := s.resolveGenres(ctx, req.GenreIDs)
		if err != nil {
			return nil, err
		}

		if err := s.repo.MovieGenre.DeleteByMovieID(ctx, movie.ID); err != nil {
			s.log.Error("Failed to clear genre links", zap.Error(err), zap.String("movie_id", movieID))
			return nil, apperror.Internal(err)
		}
		if len(genreUUIDs) > 0 {
			if err := s.linkGenres(ctx, movie.ID, genreUUIDs, time.Now()); err != nil {
				return nil, err
			}
		}
	}

	genres, _ := s.repo.Genre.FindByMovieID(ctx, movie.ID)

	s.log.Info("Movie updated",
		zap.String("movie_id", movieID),
		zap.String("title", movie.Title),
		zap.Bool("was_updated", updated),
	)

	movieResp := response.MovieToResponse(movie, genres)
	return &movieResp, nil
}

func (s *movieService) DeactivateMovie(ctx context.Context, movieID string) error {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return apperror.Validation(apperror.CodeInvalidRequest, "invalid movie id")
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.String("movie_id", movieID))
		return apperror.Internal(err)
	}
	if movie == nil {
		return apperror.NotFound(apperror.CodeMovieNotFound, "movie not found")
	}

	// Soft delete keeps historic bookings pointing at a real row
	if err := s.repo.Movie.Deactivate(ctx, id); err != nil {
		s.log.Error("Failed to deactivate movie", zap.Error(err), zap.String("movie_id", movieID))
		return apperror.Internal(err)
	}

	s.log.Info("Movie deactivated",
		zap.String("movie_id", movieID),
		zap.String("title", movie.Title),
	)

	return nil
}

func (s *movieService) CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error) {
	// 1. Validate request data
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, utils.FormatValidationErrors(errs))
	}

	// 2. Genre names are unique case-insensitively
	existing, err := s.repo.Genre.FindByName(ctx, req.Name)
	if err != nil {
		s.log.Error("Failed to check genre name", zap.Error(err), zap.String("name", req.Name))
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict(apperror.CodeGenreExists, "genre already exists")
	}

	genre := &entity.Genre{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name: req.Name,
	}

	if err := s.repo.Genre.Create(ctx, genre); err != nil {
		s.log.Error("Failed to create genre", zap.Error(err), zap.String("name", req.Name))
		return nil, apperror.Internal(err)
	}

	s.log.Info("Genre created",
		zap.String("genre_id", genre.ID.String()),
		zap.String("name", genre.Name),
	)

	genreResp := response.GenreToResponse(genre)
	return &genreResp, nil
}

// ==================== HELPER METHODS ====================

func (s *movieService) buildFilter(query *request.MovieListQuery) (*repository.MovieFilter, error) {
	filter := &repository.MovieFilter{
		OrderBy:    query.SortBy,
		Descending: query.Order == "desc",
	}

	if query.GenreID != "" {
		genreID, err := uuid.Parse(query.GenreID)
		if err != nil {
			return nil, apperror.Validation(apperror.CodeInvalidRequest, "invalid genre id")
		}
		filter.GenreID = &genreID
	}

	if query.Search != "" {
		search := query.Search
		filter.Search = &search
	}

	if query.ReleaseDateFrom != "" {
		from, err := time.Parse("2006-01-02", query.ReleaseDateFrom)
		if err != nil {
			return nil, apperror.Validation(apperror.CodeInvalidRequest, "release_date_from must be YYYY-MM-DD")
		}
		filter.ReleaseDateFrom = &from
	}

	if query.ReleaseDateTo != "" {
		to, err := time.Parse("2006-01-02", query.ReleaseDateTo)
		if err != nil {
			return nil, apperror.Validation(apperror.CodeInvalidRequest, "release_date_to must be YYYY-MM-DD")
		}
		filter.ReleaseDateTo = &to
	}

	return filter, nil
}

func (s *movieService) resolveGenres(ctx context.Context, genreIDs []string) ([]uuid.UUID, []*entity.Genre, error) {
	genreUUIDs := make([]uuid.UUID, 0, len(genreIDs))
	genres := make([]*entity.Genre, 0, len(genreIDs))

	for _, genreIDStr := range genreIDs {
		genreID, err := uuid.Parse(genreIDStr)
		if err != nil {
			return nil, nil, apperror.Validation(apperror.CodeInvalidRequest, "invalid genre id")
		}

		genre, err := s.repo.Genre.FindByID(ctx, genreID)
		if err != nil {
			s.log.Error("Failed to check genre existence", zap.Error(err), zap.String("genre_id", genreIDStr))
			return nil, nil, apperror.Internal(err)
		}
		if genre == nil {
			return nil, nil, apperror.NotFound(apperror.CodeGenreNotFound, "genre not found: "+genreIDStr)
		}

		genreUUIDs = append(genreUUIDs, genreID)
		genres = append(genres, genre)
	}

	return genreUUIDs, genres, nil
}

func (s *movieService) linkGenres(ctx context.Context, movieID uuid.UUID, genreIDs []uuid.UUID, now time.Time) error {
	movieGenres := make([]*entity.MovieGenre, len(genreIDs))
	for i, genreID := range genreIDs {
		movieGenres[i] = &entity.MovieGenre{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			MovieID: movieID,
			GenreID: genreID,
		}
	}

	if err := s.repo.MovieGenre.CreateBatch(ctx, movieGenres); err != nil {
		s.log.Error("Failed to create movie-genre links",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return apperror.Internal(err)
	}

	return nil
}

func parseRating(raw *string) (*decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	rating, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "rating must be a decimal number")
	}
	if rating.IsNegative() || rating.GreaterThan(decimal.NewFromInt(10)) {
		return nil, apperror.Validation(apperror.CodeInvalidRequest, "rating must be between 0 and 10")
	}

	return &rating, nil
}
