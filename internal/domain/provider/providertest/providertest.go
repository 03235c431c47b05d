// Package providertest реализует общий набор проверок контракта провайдера.
// Реализации прогоняют его из своих тестов с известными данными фикстур:
// один и тот же набор проверяет и встроенные каталоги, и адаптеры плагинов.
//
// Группа: CONTRACT - Проверки контракта
// Содержит: Expectations, CheckResult, Checks, Check, Run
package providertest

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fonoteka/internal/domain/provider"
	"fonoteka/internal/model"
)

// SearchExpectation описывает ожидания поиска: запрос и первый трек
// детерминированной выдачи
type SearchExpectation struct {
	Query                string
	Filters              provider.TrackSearchFilters
	ExpectedFirstTrackID model.TrackID
}

// PlaylistExpectation описывает ожидания плейлистов; обязательна, когда
// провайдер заявляет их поддержку
type PlaylistExpectation struct {
	PlaylistID model.PlaylistID
	// SearchQuery — запрос, находящий плейлист; пустая строка пропускает
	// проверку поиска
	SearchQuery string
}

// Expectations описывает данные фикстур для прогона контракта
type Expectations struct {
	ProviderID    string
	Search        SearchExpectation
	StreamTrackID model.TrackID
	Playlist      *PlaylistExpectation
}

// CheckResult представляет исход одной проверки контракта
type CheckResult struct {
	Name string
	Err  error
}

// Passed проверяет, прошла ли проверка
func (r CheckResult) Passed() bool {
	return r.Err == nil
}

// Run прогоняет контракт и проваливает тест при первом нарушении
func Run(t *testing.T, p provider.Provider, exp Expectations) {
	t.Helper()
	require.NoError(t, Check(p, exp))
}

// Check прогоняет контракт и возвращает первое нарушение
func Check(p provider.Provider, exp Expectations) error {
	for _, result := range Checks(p, exp) {
		if result.Err != nil {
			return result.Err
		}
	}
	return nil
}

// Checks прогоняет контракт и возвращает исход каждой проверки по отдельности.
// Используется диагностикой, которой нужен полный отчет, а не первый провал.
func Checks(p provider.Provider, exp Expectations) []CheckResult {
	return []CheckResult{
		{Name: "search", Err: verifySearch(p, exp)},
		{Name: "stream", Err: verifyStream(p, exp)},
		{Name: "playlists", Err: verifyPlaylists(p, exp)},
	}
}

func verifySearch(p provider.Provider, exp Expectations) error {
	caps := p.Capabilities()

	page, err := p.SearchTracks(exp.Search.Query, exp.Search.Filters, model.FirstPage(10))
	if err != nil {
		return providerFailure(err)
	}
	if page.Len() == 0 {
		return fmt.Errorf("search returned no tracks for query: %s", exp.Search.Query)
	}

	first := page.Items[0]
	if first.ID != exp.Search.ExpectedFirstTrackID {
		return fmt.Errorf("search returned wrong first track id: expected %q, got %q",
			exp.Search.ExpectedFirstTrackID, first.ID)
	}
	if first.ProviderID != exp.ProviderID {
		return fmt.Errorf("search returned track from different provider: %s", first.ProviderID)
	}
	if caps.SupportsOfflineDownload() && strings.TrimSpace(first.Title) == "" {
		// Офлайн-загрузка подразумевает локальные метаданные: пустое
		// название — нарушение контракта.
		return providerFailure(errors.New("empty track title returned"))
	}

	track, err := p.GetTrack(first.ID)
	if err != nil {
		return providerFailure(err)
	}
	if track.ID != first.ID {
		return fmt.Errorf("get_track returned mismatched id: expected %q, got %q", first.ID, track.ID)
	}
	if track.ProviderID != exp.ProviderID {
		return fmt.Errorf("search returned track from different provider: %s", track.ProviderID)
	}

	return nil
}

func verifyStream(p provider.Provider, exp Expectations) error {
	url, err := p.GetStreamURL(exp.StreamTrackID)
	if err != nil {
		return providerFailure(err)
	}
	if url == "" {
		return fmt.Errorf("stream URL was empty for track %q", exp.StreamTrackID)
	}
	return nil
}

func verifyPlaylists(p provider.Provider, exp Expectations) error {
	caps := p.Capabilities()

	if !caps.SupportsPlaylists() {
		// Провайдер без поддержки обязан отвечать NotSupported, а не
		// пустыми страницами: UI различает "нет данных" и "нет функции".
		if _, err := p.ListPlaylists(model.FirstPage(1)); !provider.IsNotSupported(err) {
			return errors.New("provider does not advertise playlists but list_playlists did not return NotSupported")
		}
		if _, err := p.SearchPlaylists("irrelevant", model.FirstPage(1)); !provider.IsNotSupported(err) {
			return errors.New("provider does not advertise playlists but search_playlists did not return NotSupported")
		}
		return nil
	}

	if exp.Playlist == nil {
		return errors.New("provider advertises playlists capability but no playlist expectation supplied")
	}

	listed, err := p.ListPlaylists(model.FirstPage(25))
	if err != nil {
		return providerFailure(err)
	}
	if listed.Len() == 0 {
		return errors.New("provider claims playlists support but did not return a playlist")
	}
	if !containsPlaylist(listed.Items, exp.Playlist.PlaylistID) {
		return fmt.Errorf("provider claims playlists support but did not return expected playlist id %q",
			exp.Playlist.PlaylistID)
	}

	if exp.Playlist.SearchQuery != "" {
		searched, err := p.SearchPlaylists(exp.Playlist.SearchQuery, model.FirstPage(25))
		if err != nil {
			return providerFailure(err)
		}
		if !containsPlaylist(searched.Items, exp.Playlist.PlaylistID) {
			return fmt.Errorf("provider claims playlists support but search did not return expected playlist id %q",
				exp.Playlist.PlaylistID)
		}
	}

	return nil
}

func containsPlaylist(items []model.Playlist, id model.PlaylistID) bool {
	for _, playlist := range items {
		if playlist.ID == id {
			return true
		}
	}
	return false
}

func providerFailure(err error) error {
	return fmt.Errorf("provider error while running contract: %s", err)
}
