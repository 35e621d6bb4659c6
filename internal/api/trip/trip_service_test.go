package trip

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/discovery"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/wikipedia"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) GetCoordinates(ctx context.Context, placeName string) (*types.Coordinates, error) {
	args := m.Called(ctx, placeName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Coordinates), args.Error(1)
}

func (m *MockLocationService) SearchLocations(ctx context.Context, query string) ([]types.DestinationCandidate, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.DestinationCandidate), args.Error(1)
}

func (m *MockLocationService) NearbyTouristSpots(ctx context.Context, lat, lon float64) ([]types.NearbySpot, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.NearbySpot), args.Error(1)
}

type MockDiscoveryProvider struct {
	mock.Mock
	name string
}

func (m *MockDiscoveryProvider) Name() string { return m.name }

func (m *MockDiscoveryProvider) Discover(ctx context.Context, destination string, preferences []string) ([]types.DiscoveredSpot, error) {
	args := m.Called(ctx, destination, preferences)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.DiscoveredSpot), args.Error(1)
}

type MockEncyclopedia struct {
	mock.Mock
}

func (m *MockEncyclopedia) GetPlaceInfo(ctx context.Context, placeName, city string) (*types.EncyclopediaEntry, error) {
	args := m.Called(ctx, placeName, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.EncyclopediaEntry), args.Error(1)
}

func (m *MockEncyclopedia) GetCityInfo(ctx context.Context, city string) (*types.EncyclopediaEntry, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.EncyclopediaEntry), args.Error(1)
}

type MockImageFinder struct {
	mock.Mock
}

func (m *MockImageFinder) Find(ctx context.Context, placeName, city string) (string, string, error) {
	args := m.Called(ctx, placeName, city)
	return args.String(0), args.String(1), args.Error(2)
}

type MockRoutingService struct {
	mock.Mock
}

func (m *MockRoutingService) GetRoute(ctx context.Context, points [][2]float64) (*types.RouteGeometry, error) {
	args := m.Called(ctx, points)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RouteGeometry), args.Error(1)
}

type MockContextWriter struct {
	mock.Mock
}

func (m *MockContextWriter) GetLocationContext(ctx context.Context, locationName string) (string, error) {
	args := m.Called(ctx, locationName)
	return args.String(0), args.Error(1)
}

type tripServiceMocks struct {
	location *MockLocationService
	primary  *MockDiscoveryProvider
	fallback *MockDiscoveryProvider
	wiki     *MockEncyclopedia
	images   *MockImageFinder
	routing  *MockRoutingService
	context  *MockContextWriter
}

func (m tripServiceMocks) assertExpectations(t *testing.T) {
	m.location.AssertExpectations(t)
	m.primary.AssertExpectations(t)
	m.fallback.AssertExpectations(t)
	m.wiki.AssertExpectations(t)
	m.images.AssertExpectations(t)
	m.routing.AssertExpectations(t)
	m.context.AssertExpectations(t)
}

// setupTripServiceTest wires the chain ai_discovery -> static_table ->
// geocoded_ai_discovery with mocks around the real curated table.
func setupTripServiceTest(t *testing.T) (*ServiceImpl, tripServiceMocks) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := tripServiceMocks{
		location: new(MockLocationService),
		primary:  &MockDiscoveryProvider{name: "ai_discovery"},
		fallback: &MockDiscoveryProvider{name: "geocoded_ai_discovery"},
		wiki:     new(MockEncyclopedia),
		images:   new(MockImageFinder),
		routing:  new(MockRoutingService),
		context:  new(MockContextWriter),
	}
	cache := NewCache(time.Hour, 0)
	t.Cleanup(cache.Close)

	svc := NewServiceImpl(logger, Providers{
		Location:     m.location,
		Discovery:    []discovery.Provider{m.primary, discovery.NewStaticTable(), m.fallback},
		Encyclopedia: m.wiki,
		Images:       m.images,
		Routing:      m.routing,
		Context:      m.context,
	}, cache, NewShareStore(time.Hour), nil)
	return svc, m
}

func ptr(f float64) *float64 { return &f }

var jaipurCoords = &types.Coordinates{Latitude: 26.9124, Longitude: 75.7873}

func TestGenerateTrip_FallsBackToStaticTable(t *testing.T) {
	svc, m := setupTripServiceTest(t)
	ctx := context.Background()

	m.location.On("GetCoordinates", mock.Anything, "Jaipur").Return(jaipurCoords, nil).Once()
	m.primary.On("Discover", mock.Anything, "Jaipur", []string(nil)).Return(nil, errors.New("llm unavailable")).Once()
	m.wiki.On("GetPlaceInfo", mock.Anything, "Hawa Mahal", "Jaipur").
		Return(&types.EncyclopediaEntry{Title: "Hawa Mahal", ImageURL: "https://upload.wikimedia.org/hawa.jpg"}, nil).Once()
	m.wiki.On("GetPlaceInfo", mock.Anything, mock.Anything, "Jaipur").Return(nil, wikipedia.ErrPageNotFound)
	m.images.On("Find", mock.Anything, mock.Anything, "Jaipur").Return("", "", errors.New("no image"))
	m.wiki.On("GetCityInfo", mock.Anything, "Jaipur").Return(nil, errors.New("timeout")).Once()
	m.routing.On("GetRoute", mock.Anything, mock.AnythingOfType("[][2]float64")).
		Return(&types.RouteGeometry{Type: "LineString", Coordinates: [][]float64{{75.8267, 26.9239}, {75.8237, 26.9258}}}, nil).Once()

	trip, err := svc.GenerateTrip(ctx, "Jaipur", 2, nil)
	require.NoError(t, err)

	assert.Equal(t, "Jaipur", trip.Destination)
	assert.Equal(t, 2, trip.Days)
	assert.Equal(t, "Explore Jaipur, India.", trip.CityInfo.Description)
	require.Len(t, trip.Itinerary, 2)

	want := []string{"Hawa Mahal", "Amber Fort", "City Palace", "Jantar Mantar", "Nahargarh Fort", "Jal Mahal"}
	var got []string
	for i, day := range trip.Itinerary {
		assert.Equal(t, i+1, day.DayNumber)
		assert.Len(t, day.Places, 3)
		for _, p := range day.Places {
			got = append(got, p.Name)
			assert.Equal(t, types.DefaultDurationHint, p.DurationHint)
			assert.True(t, p.HasCoordinates())
		}
	}
	assert.Equal(t, want, got)

	first := trip.Itinerary[0].Places[0]
	assert.Equal(t, "https://upload.wikimedia.org/hawa.jpg", first.ImageURL)
	assert.InDelta(t, 26.9239, *first.Latitude, 1e-9)
	assert.InDelta(t, 4.5, first.Rating, 1e-9)
	assert.Empty(t, trip.Itinerary[1].Places[2].ImageURL)

	require.NotNil(t, trip.RouteGeometry)
	assert.Equal(t, "LineString", trip.RouteGeometry.Type)

	m.fallback.AssertNotCalled(t, "Discover", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestGenerateTrip_FirstProviderWins(t *testing.T) {
	svc, m := setupTripServiceTest(t)
	ctx := context.Background()

	m.location.On("GetCoordinates", mock.Anything, "Jaipur").Return(jaipurCoords, nil).Once()
	m.primary.On("Discover", mock.Anything, "Jaipur", []string{"food"}).Return([]types.DiscoveredSpot{
		{Name: "Chokhi Dhani", Category: "Food"},
		{Name: " chokhi dhani ", Category: "Food"},
		{Name: "Masala Chowk", Category: "Food"},
	}, nil).Once()
	m.wiki.On("GetPlaceInfo", mock.Anything, mock.Anything, "Jaipur").Return(nil, wikipedia.ErrPageNotFound)
	m.images.On("Find", mock.Anything, mock.Anything, "Jaipur").Return("https://pixabay.com/x.jpg", "pixabay", nil)
	m.wiki.On("GetCityInfo", mock.Anything, "Jaipur").
		Return(&types.EncyclopediaEntry{Title: "Jaipur", Extract: "Capital of Rajasthan."}, nil).Once()
	centre := [2]float64{jaipurCoords.Longitude, jaipurCoords.Latitude}
	m.routing.On("GetRoute", mock.Anything, [][2]float64{centre, centre}).
		Return(&types.RouteGeometry{Type: "LineString"}, nil).Once()

	trip, err := svc.GenerateTrip(ctx, "Jaipur", 1, []string{"food"})
	require.NoError(t, err)

	assert.Equal(t, "Capital of Rajasthan.", trip.CityInfo.Description)
	require.Len(t, trip.Itinerary, 1)
	require.Len(t, trip.Itinerary[0].Places, 2, "duplicates are collapsed")
	for _, p := range trip.Itinerary[0].Places {
		assert.Equal(t, "https://pixabay.com/x.jpg", p.ImageURL)
		require.True(t, p.HasCoordinates(), "falls back to destination coordinates")
		assert.Equal(t, jaipurCoords.Latitude, *p.Latitude)
	}

	assert.NotNil(t, trip.RouteGeometry)

	m.fallback.AssertNotCalled(t, "Discover", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestGenerateTrip_LastProvider(t *testing.T) {
	svc, m := setupTripServiceTest(t)
	ctx := context.Background()
	coords := &types.Coordinates{Latitude: 34.1526, Longitude: 77.5771}

	m.location.On("GetCoordinates", mock.Anything, "Leh").Return(coords, nil).Once()
	m.primary.On("Discover", mock.Anything, "Leh", []string(nil)).Return([]types.DiscoveredSpot{}, nil).Once()
	m.fallback.On("Discover", mock.Anything, "Leh", []string(nil)).Return([]types.DiscoveredSpot{
		{Name: "Shanti Stupa", Lat: ptr(34.1729), Lon: ptr(77.5754)},
		{Name: "Leh Palace", Lat: ptr(34.1642), Lon: ptr(77.5848)},
	}, nil).Once()
	m.wiki.On("GetPlaceInfo", mock.Anything, mock.Anything, "Leh").Return(nil, wikipedia.ErrPageNotFound)
	m.images.On("Find", mock.Anything, mock.Anything, "Leh").Return("", "", errors.New("no image"))
	m.wiki.On("GetCityInfo", mock.Anything, "Leh").Return(nil, wikipedia.ErrPageNotFound).Once()
	m.routing.On("GetRoute", mock.Anything, [][2]float64{{77.5754, 34.1729}, {77.5848, 34.1642}}).
		Return(nil, errors.New("osrm down")).Once()

	trip, err := svc.GenerateTrip(ctx, "Leh", 3, nil)
	require.NoError(t, err)

	require.Len(t, trip.Itinerary, 2, "fewer places than days")
	assert.Equal(t, "Shanti Stupa", trip.Itinerary[0].Places[0].Name)
	assert.Nil(t, trip.RouteGeometry, "router failure leaves the route empty")
	m.assertExpectations(t)
}

func TestGenerateTrip_NoPlacesAnywhere(t *testing.T) {
	svc, m := setupTripServiceTest(t)
	ctx := context.Background()
	coords := &types.Coordinates{Latitude: 10.0, Longitude: 76.0}

	m.location.On("GetCoordinates", mock.Anything, "Nowhere").Return(coords, nil).Once()
	m.primary.On("Discover", mock.Anything, "Nowhere", []string(nil)).Return(nil, errors.New("bad json")).Once()
	m.fallback.On("Discover", mock.Anything, "Nowhere", []string(nil)).Return(nil, errors.New("bad json")).Once()
	m.wiki.On("GetCityInfo", mock.Anything, "Nowhere").Return(nil, wikipedia.ErrPageNotFound).Once()

	trip, err := svc.GenerateTrip(ctx, "Nowhere", 2, nil)
	require.NoError(t, err)
	assert.Empty(t, trip.Itinerary)
	assert.Nil(t, trip.RouteGeometry)
	m.assertExpectations(t)
}

func TestGenerateTrip_DestinationNotFound(t *testing.T) {
	svc, m := setupTripServiceTest(t)

	m.location.On("GetCoordinates", mock.Anything, "Atlantis").Return(nil, errors.New("no results")).Once()

	trip, err := svc.GenerateTrip(context.Background(), "Atlantis", 2, nil)
	assert.Nil(t, trip)
	assert.ErrorIs(t, err, types.ErrDestinationNotFound)

	m.primary.AssertNotCalled(t, "Discover", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestGenerateTrip_CachedIgnoringPreferenceOrder(t *testing.T) {
	svc, m := setupTripServiceTest(t)
	ctx := context.Background()

	m.location.On("GetCoordinates", mock.Anything, "Goa").Return(&types.Coordinates{Latitude: 15.3, Longitude: 74.1}, nil).Once()
	m.primary.On("Discover", mock.Anything, "Goa", []string{"beach", "food"}).Return(nil, errors.New("llm unavailable")).Once()
	m.wiki.On("GetPlaceInfo", mock.Anything, mock.Anything, "Goa").Return(nil, wikipedia.ErrPageNotFound)
	m.images.On("Find", mock.Anything, mock.Anything, "Goa").Return("", "", errors.New("no image"))
	m.wiki.On("GetCityInfo", mock.Anything, "Goa").Return(nil, wikipedia.ErrPageNotFound).Once()
	m.routing.On("GetRoute", mock.Anything, mock.Anything).Return(&types.RouteGeometry{Type: "LineString"}, nil).Once()

	first, err := svc.GenerateTrip(ctx, "Goa", 2, []string{"beach", "food"})
	require.NoError(t, err)

	second, err := svc.GenerateTrip(ctx, "goa", 2, []string{"food", "beach"})
	require.NoError(t, err)
	assert.Same(t, first, second)

	// Every mock above is .Once(); a second provider round would fail here.
	m.assertExpectations(t)
}

func TestGenerateTrip_SurvivesCallerCancellation(t *testing.T) {
	svc, m := setupTripServiceTest(t)
	ctx, cancel := context.WithCancel(context.Background())

	m.location.On("GetCoordinates", mock.Anything, "Jaipur").
		Run(func(args mock.Arguments) { cancel() }).
		Return(jaipurCoords, nil).Once()
	m.primary.On("Discover", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), "Jaipur", []string(nil)).
		Return([]types.DiscoveredSpot{{Name: "Hawa Mahal"}}, nil).Once()
	m.wiki.On("GetPlaceInfo", mock.Anything, "Hawa Mahal", "Jaipur").Return(nil, wikipedia.ErrPageNotFound).Once()
	m.images.On("Find", mock.Anything, "Hawa Mahal", "Jaipur").Return("", "", errors.New("no image")).Once()
	m.wiki.On("GetCityInfo", mock.Anything, "Jaipur").Return(nil, wikipedia.ErrPageNotFound).Once()

	trip, err := svc.GenerateTrip(ctx, "Jaipur", 1, nil)
	require.NoError(t, err)
	require.Len(t, trip.Itinerary, 1)

	cached, ok := svc.cache.Get(cacheKey("Jaipur", 1, nil))
	require.True(t, ok)
	assert.Same(t, trip, cached)
	m.assertExpectations(t)
}

func TestGetPlaceInfo(t *testing.T) {
	t.Run("encyclopedia image and AI note", func(t *testing.T) {
		svc, m := setupTripServiceTest(t)
		m.wiki.On("GetPlaceInfo", mock.Anything, "Amber Fort", "Jaipur").Return(&types.EncyclopediaEntry{
			Title:    "Amber Fort",
			Extract:  "A fort in Amer.",
			ImageURL: "https://upload.wikimedia.org/amber.jpg",
			PageURL:  "https://en.wikipedia.org/wiki/Amber_Fort",
		}, nil).Once()
		m.context.On("GetLocationContext", mock.Anything, "Amber Fort, Jaipur").Return("Built in 1592.", nil).Once()

		info, err := svc.GetPlaceInfo(context.Background(), "Amber Fort", "Jaipur")
		require.NoError(t, err)
		assert.Equal(t, "Amber Fort", info.Title)
		assert.Equal(t, "A fort in Amer.\n\nBuilt in 1592.", info.Description)
		require.NotNil(t, info.Source)
		assert.Equal(t, "wikipedia", *info.Source)
		require.NotNil(t, info.PageURL)
		m.images.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("stock photo when the page has no image", func(t *testing.T) {
		svc, m := setupTripServiceTest(t)
		m.wiki.On("GetPlaceInfo", mock.Anything, "Jal Mahal", "").
			Return(&types.EncyclopediaEntry{Title: "Jal Mahal", Extract: "Water palace."}, nil).Once()
		m.images.On("Find", mock.Anything, "Jal Mahal", "").Return("https://images.unsplash.com/j.jpg", "unsplash", nil).Once()
		m.context.On("GetLocationContext", mock.Anything, "Jal Mahal").Return("", errNoGenerator).Once()

		info, err := svc.GetPlaceInfo(context.Background(), "Jal Mahal", "")
		require.NoError(t, err)
		assert.Equal(t, "Water palace.", info.Description)
		require.NotNil(t, info.Source)
		assert.Equal(t, "unsplash", *info.Source)
		assert.Equal(t, "https://images.unsplash.com/j.jpg", *info.ImageURL)
		m.assertExpectations(t)
	})

	t.Run("nothing found", func(t *testing.T) {
		svc, m := setupTripServiceTest(t)
		m.wiki.On("GetPlaceInfo", mock.Anything, "Unknown", "").Return(nil, wikipedia.ErrPageNotFound).Once()
		m.images.On("Find", mock.Anything, "Unknown", "").Return("", "", errors.New("no image")).Once()
		m.context.On("GetLocationContext", mock.Anything, "Unknown").Return("A quiet place.", nil).Once()

		info, err := svc.GetPlaceInfo(context.Background(), "Unknown", "")
		require.NoError(t, err)
		assert.Equal(t, "Unknown", info.Title)
		assert.Equal(t, "A quiet place.", info.Description)
		assert.Nil(t, info.ImageURL)
		assert.Nil(t, info.Source)
		assert.Nil(t, info.PageURL)
		m.assertExpectations(t)
	})
}

var errNoGenerator = errors.New("text generator not configured")

func TestGetPopularDestinations(t *testing.T) {
	svc, m := setupTripServiceTest(t)
	m.wiki.On("GetPlaceInfo", mock.Anything, "Jaipur", "").
		Return(&types.EncyclopediaEntry{ImageURL: "https://upload.wikimedia.org/jaipur.jpg"}, nil).Once()
	m.wiki.On("GetPlaceInfo", mock.Anything, mock.Anything, "").Return(nil, wikipedia.ErrPageNotFound)

	got, err := svc.GetPopularDestinations(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 12)

	assert.Equal(t, "Jaipur", got[0].Name)
	assert.Equal(t, "https://upload.wikimedia.org/jaipur.jpg", got[0].ImageURL)
	assert.Equal(t, "https://via.placeholder.com/400x300?text=Udaipur", got[1].ImageURL)
	assert.Equal(t, "Mysore", got[11].Name)

	// The package table stays untouched.
	assert.Empty(t, popularDestinations[0].ImageURL)
}

func TestSearchAndNearby_DegradeToEmpty(t *testing.T) {
	svc, m := setupTripServiceTest(t)
	ctx := context.Background()
	m.location.On("SearchLocations", mock.Anything, "jai").Return(nil, errors.New("503")).Once()
	m.location.On("NearbyTouristSpots", mock.Anything, 26.9, 75.8).Return(nil, errors.New("timeout")).Once()

	results, err := svc.SearchDestinations(ctx, "jai")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	spots, err := svc.NearbySpots(ctx, 26.9, 75.8)
	require.NoError(t, err)
	assert.NotNil(t, spots)
	assert.Empty(t, spots)
	m.assertExpectations(t)
}

func TestShareCodes(t *testing.T) {
	svc, _ := setupTripServiceTest(t)
	ctx := context.Background()
	trip := sampleTrip()

	code, err := svc.CreateShareCode(ctx, &trip)
	require.NoError(t, err)

	got, err := svc.GetTripByShareCode(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, trip, *got)

	_, err = svc.GetTripByShareCode(ctx, "ZZZZZZ")
	assert.ErrorIs(t, err, types.ErrShareNotFound)

	_, err = svc.CreateShareCode(ctx, nil)
	assert.Error(t, err)
}
