package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const imageBaseURL = "https://image.tmdb.org/t/p/w500"

// Client calls The Movie Database REST API.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MovieSummary struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

type MovieDetail struct {
	MovieSummary
	Runtime int     `json:"runtime"`
	Genres  []Genre `json:"genres"`
}

type PopularPage struct {
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Results    []MovieSummary `json:"results"`
}

type video struct {
	Site string `json:"site"`
	Type string `json:"type"`
	Key  string `json:"key"`
}

type videosResponse struct {
	Results []video `json:"results"`
}

type genresResponse struct {
	Genres []Genre `json:"genres"`
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode()), nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// MovieGenres returns the full TMDB movie genre list.
func (c *Client) MovieGenres(ctx context.Context) ([]Genre, error) {
	var out genresResponse
	if err := c.get(ctx, "genre/movie/list", nil, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

// PopularMovies returns one page of TMDB's popular movie listing.
func (c *Client) PopularMovies(ctx context.Context, page int) (*PopularPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var out PopularPage
	if err := c.get(ctx, "movie/popular", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MovieDetail returns runtime and genre data for a single movie.
func (c *Client) MovieDetail(ctx context.Context, id int64) (*MovieDetail, error) {
	var out MovieDetail
	if err := c.get(ctx, fmt.Sprintf("movie/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrailerURL returns the YouTube watch URL of the first trailer, or "" when none exists.
func (c *Client) TrailerURL(ctx context.Context, id int64) (string, error) {
	var out videosResponse
	if err := c.get(ctx, fmt.Sprintf("movie/%d/videos", id), nil, &out); err != nil {
		return "", err
	}
	for _, v := range out.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" && v.Key != "" {
			return "https://www.youtube.com/watch?v=" + v.Key, nil
		}
	}
	return "", nil
}

// PosterURL converts a TMDB poster path into a full image URL.
func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + path
}
