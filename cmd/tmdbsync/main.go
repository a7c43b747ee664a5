// Command tmdbsync seeds the movie catalog from TMDB. It imports the genre
// list and the requested number of popular-movie pages, skipping movies that
// were already imported unless -update-existing is set.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"lumo-api/internal/data/entity"
	"lumo-api/internal/data/repository"
	"lumo-api/pkg/database"
	"lumo-api/pkg/tmdb"
	"lumo-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	pages := flag.Int("pages", 5, "number of popular-movie pages to import")
	updateExisting := flag.Bool("update-existing", false, "refresh movies that were already imported")
	flag.Parse()

	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	if config.TMDB.APIKey == "" {
		logger.Fatal("TMDB_API_KEY is not set")
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repos := repository.NewRepository(db, logger)
	client := tmdb.NewClient(config.TMDB.BaseURL, config.TMDB.APIKey)

	ctx := context.Background()

	genreIDs, err := syncGenres(ctx, client, repos, logger)
	if err != nil {
		logger.Fatal("Genre sync failed", zap.Error(err))
	}

	imported, updated, skipped := syncMovies(ctx, client, repos, genreIDs, *pages, *updateExisting, logger)

	logger.Info("TMDB sync finished",
		zap.Int("imported", imported),
		zap.Int("updated", updated),
		zap.Int("skipped", skipped),
	)
}

// syncGenres mirrors the TMDB genre list into the local table and returns
// the TMDB id to local id mapping used when linking movies.
func syncGenres(ctx context.Context, client *tmdb.Client, repos *repository.Repository, log *zap.Logger) (map[int64]uuid.UUID, error) {
	remote, err := client.MovieGenres(ctx)
	if err != nil {
		return nil, err
	}

	genreIDs := make(map[int64]uuid.UUID, len(remote))
	for _, g := range remote {
		existing, err := repos.Genre.FindByName(ctx, g.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			genreIDs[g.ID] = existing.ID
			continue
		}

		genre := &entity.Genre{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: time.Now(),
			},
			Name: g.Name,
		}
		if err := repos.Genre.Create(ctx, genre); err != nil {
			return nil, err
		}

		genreIDs[g.ID] = genre.ID
		log.Info("Genre imported", zap.String("name", g.Name))
	}

	return genreIDs, nil
}

func syncMovies(
	ctx context.Context,
	client *tmdb.Client,
	repos *repository.Repository,
	genreIDs map[int64]uuid.UUID,
	pages int,
	updateExisting bool,
	log *zap.Logger,
) (imported, updated, skipped int) {
	for page := 1; page <= pages; page++ {
		popular, err := client.PopularMovies(ctx, page)
		if err != nil {
			log.Error("Failed to fetch popular movies", zap.Int("page", page), zap.Error(err))
			return
		}

		for _, summary := range popular.Results {
			existing, err := repos.Movie.FindByTMDBID(ctx, summary.ID)
			if err != nil {
				log.Error("Lookup failed", zap.Int64("tmdb_id", summary.ID), zap.Error(err))
				continue
			}
			if existing != nil && !updateExisting {
				skipped++
				continue
			}

			if err := importMovie(ctx, client, repos, genreIDs, summary.ID, existing, log); err != nil {
				log.Warn("Import failed",
					zap.Int64("tmdb_id", summary.ID),
					zap.String("title", summary.Title),
					zap.Error(err),
				)
				continue
			}

			if existing != nil {
				updated++
			} else {
				imported++
			}

			// Stay well under the TMDB request budget
			time.Sleep(250 * time.Millisecond)
		}

		if page >= popular.TotalPages {
			break
		}
	}

	return
}

func importMovie(
	ctx context.Context,
	client *tmdb.Client,
	repos *repository.Repository,
	genreIDs map[int64]uuid.UUID,
	tmdbID int64,
	existing *entity.Movie,
	log *zap.Logger,
) error {
	detail, err := client.MovieDetail(ctx, tmdbID)
	if err != nil {
		return err
	}

	releaseDate, err := time.Parse("2006-01-02", detail.ReleaseDate)
	if err != nil {
		// Unreleased titles come back without a date; nothing to show for them
		return err
	}

	trailer, err := client.TrailerURL(ctx, tmdbID)
	if err != nil {
		log.Warn("Trailer lookup failed", zap.Int64("tmdb_id", tmdbID), zap.Error(err))
		trailer = ""
	}

	runtime := detail.Runtime
	if runtime == 0 {
		runtime = 120
	}

	var rating *decimal.Decimal
	if detail.VoteAverage > 0 {
		r := decimal.NewFromFloat(detail.VoteAverage).Round(1)
		rating = &r
	}

	var description *string
	if detail.Overview != "" {
		description = &detail.Overview
	}

	var posterURL *string
	if p := tmdb.PosterURL(detail.PosterPath); p != "" {
		posterURL = &p
	}

	var trailerURL *string
	if trailer != "" {
		trailerURL = &trailer
	}

	now := time.Now()

	movie := existing
	if movie == nil {
		movie = &entity.Movie{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			IsActive: true,
		}
	}

	movie.Title = detail.Title
	movie.Description = description
	movie.DurationMinutes = runtime
	movie.ReleaseDate = releaseDate
	movie.Rating = rating
	movie.PosterURL = posterURL
	movie.TrailerURL = trailerURL
	movie.TMDBID = &detail.ID
	movie.UpdatedAt = now

	if existing == nil {
		if err := repos.Movie.Create(ctx, movie); err != nil {
			return err
		}
	} else {
		if err := repos.Movie.Update(ctx, movie); err != nil {
			return err
		}
		if err := repos.MovieGenre.DeleteByMovieID(ctx, movie.ID); err != nil {
			return err
		}
	}

	links := make([]*entity.MovieGenre, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		genreID, ok := genreIDs[g.ID]
		if !ok {
			continue
		}
		links = append(links, &entity.MovieGenre{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			MovieID: movie.ID,
			GenreID: genreID,
		})
	}
	if err := repos.MovieGenre.CreateBatch(ctx, links); err != nil {
		return err
	}

	log.Info("Movie imported",
		zap.String("title", movie.Title),
		zap.Int64("tmdb_id", tmdbID),
		zap.Int("genres", len(links)),
	)

	return nil
}
