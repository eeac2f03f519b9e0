package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/models"
	"github.com/langchou/autoprime/internal/pages"
	"github.com/langchou/autoprime/internal/pricing"
	"github.com/langchou/autoprime/pkg/metrics"
)

// 筛选项
var (
	carTypes      = []string{"Hatchback", "Sedan", "SUV", "MUV", "Luxury"}
	transmissions = []string{"Manual", "Automatic"}
	fuelTypes     = []string{"Petrol", "Diesel", "CNG", "Electric"}
)

// featuredLimit 首页推荐数量
const featuredLimit = 6

// IndexView 首页
type IndexView struct {
	Featured []models.Car
	Types    []string
}

// CarsView 车辆列表页
type CarsView struct {
	Cars          []models.Car
	Filter        models.CarFilter
	Page          int
	TotalPages    int
	Total         int
	PageLinks     []PageLink
	Types         []string
	Transmissions []string
	Fuels         []string
}

// PageLink 分页链接
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// CarDetailsView 车辆详情页
type CarDetailsView struct {
	Car          *models.Car
	Reviews      []models.Review
	PickupDate   string
	DropDate     string
	Quote        pricing.View
	Availability *models.Availability
	BookURL      string
}

func (h *Handler) initIndex(ctx context.Context, req *pages.Request) (any, error) {
	v := &IndexView{Types: carTypes}
	cars, err := h.svc.Cars.Featured(ctx, featuredLimit)
	if err != nil {
		return v, err
	}
	v.Featured = cars
	return v, nil
}

func (h *Handler) initCars(ctx context.Context, req *pages.Request) (any, error) {
	f := filterFromQuery(req.Query)
	v := &CarsView{
		Filter:        f,
		Types:         carTypes,
		Transmissions: transmissions,
		Fuels:         fuelTypes,
	}

	page, err := h.svc.Cars.List(ctx, f)
	if err != nil {
		return v, err
	}
	v.Cars = page.Cars
	v.Page = page.Page
	v.TotalPages = page.TotalPages
	v.Total = page.Total
	v.PageLinks = pageLinks(req.Query, page.Page, page.TotalPages)
	return v, nil
}

func filterFromQuery(q url.Values) models.CarFilter {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	return models.CarFilter{
		Type:         q.Get("type"),
		Transmission: q.Get("transmission"),
		Fuel:         q.Get("fuel"),
		Query:        q.Get("q"),
		MinPrice:     q.Get("minPrice"),
		MaxPrice:     q.Get("maxPrice"),
		Page:         page,
	}
}

// pageLinks 保留当前筛选条件生成分页链接
func pageLinks(q url.Values, current, total int) []PageLink {
	if total <= 1 {
		return nil
	}
	links := make([]PageLink, 0, total)
	params := url.Values{}
	for k, v := range q {
		params[k] = v
	}
	for n := 1; n <= total; n++ {
		params.Set("page", strconv.Itoa(n))
		links = append(links, PageLink{
			Number:  n,
			URL:     "/cars.html?" + params.Encode(),
			Current: n == current,
		})
	}
	return links
}

func (h *Handler) initCarDetails(ctx context.Context, req *pages.Request) (any, error) {
	id, ok := queryID(req.Query, "id")
	if !ok {
		return nil, pages.NotFound("Car not found", "No car was selected. Pick one from our fleet.")
	}

	car, err := h.svc.Cars.Get(ctx, id)
	if backend.IsStatus(err, http.StatusNotFound) {
		return nil, pages.NotFound("Car not found", "This car may have been removed or is no longer listed.")
	}
	if err != nil {
		return nil, err
	}

	v := &CarDetailsView{
		Car:        car,
		PickupDate: req.Query.Get("pickupDate"),
		DropDate:   req.Query.Get("dropDate"),
	}
	v.Quote = quoteFor(car, v.PickupDate, v.DropDate)
	v.BookURL = bookingURL(car.ID, v.PickupDate, v.DropDate)

	if reviews, err := h.svc.Cars.Reviews(ctx, id); err != nil {
		h.logger.Warn("Failed to load reviews", zap.Int64("car_id", id), zap.Error(err))
	} else {
		v.Reviews = reviews
	}

	if v.Quote.Complete {
		start, end, _ := pricing.ParseRange(v.PickupDate, v.DropDate)
		if a, err := h.svc.Cars.Availability(ctx, id, start, end); err != nil {
			h.logger.Warn("Failed to check availability", zap.Int64("car_id", id), zap.Error(err))
		} else {
			v.Availability = a
		}
	}
	return v, nil
}

func carDetailsURL(carID int64) string {
	return "/car-details.html?id=" + strconv.FormatInt(carID, 10)
}

func bookingURL(carID int64, pickup, drop string) string {
	q := url.Values{}
	q.Set("carId", strconv.FormatInt(carID, 10))
	if pickup != "" {
		q.Set("pickupDate", pickup)
	}
	if drop != "" {
		q.Set("dropDate", drop)
	}
	return "/booking.html?" + q.Encode()
}

// quoteFor 计算展示用报价，输入错误转为提示文字
func quoteFor(car *models.Car, pickup, drop string) pricing.View {
	b, err := quote(car, pickup, drop)
	metrics.RecordQuote(err, b.Complete)
	if err != nil {
		return pricing.View{Error: quoteMessage(err)}
	}
	return b.View()
}

func quote(car *models.Car, pickup, drop string) (pricing.Breakdown, error) {
	start, end, err := pricing.ParseRange(pickup, drop)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	if err := pricing.ValidateRate(car.PricePerDay); err != nil {
		return pricing.Breakdown{}, err
	}
	return pricing.CalculateForCar(car, start, end)
}

func quoteMessage(err error) string {
	switch {
	case errors.Is(err, pricing.ErrEndBeforeStart):
		return "Drop-off date must be on or after the pickup date"
	case errors.Is(err, pricing.ErrInvalidDate):
		return "Please enter valid dates"
	case errors.Is(err, pricing.ErrInvalidRate):
		return "Pricing is not available for this car"
	}
	return "Unable to calculate price"
}

// Quote 报价接口
// GET /api/quote?carId=&pickupDate=&dropDate=
// 也可直接传 rate 代替 carId
func (h *Handler) Quote(c *gin.Context) {
	pickup, drop := c.Query("pickupDate"), c.Query("dropDate")

	var car *models.Car
	if rate := c.Query("rate"); rate != "" && c.Query("carId") == "" {
		r, err := pricing.ParseRate(rate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": quoteMessage(err)})
			return
		}
		car = &models.Car{PricePerDay: r}
	} else {
		id, ok := queryID(c.Request.URL.Query(), "carId")
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid car ID"})
			return
		}
		var err error
		car, err = h.svc.Cars.Get(c.Request.Context(), id)
		if backend.IsStatus(err, http.StatusNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
			return
		}
		if err != nil {
			h.logger.Error("Failed to load car for quote", zap.Int64("car_id", id), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load car"})
			return
		}
	}

	b, err := quote(car, pickup, drop)
	metrics.RecordQuote(err, b.Complete)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": quoteMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": b.View()})
}

// SearchCars 页头搜索框联想
// GET /api/search?q=
func (h *Handler) SearchCars(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if len(q) < 2 {
		c.JSON(http.StatusOK, gin.H{"data": []models.Car{}})
		return
	}

	cars, err := h.svc.Cars.Search(c.Request.Context(), q)
	if err != nil {
		h.logger.Error("Failed to search cars", zap.String("q", q), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Search is unavailable right now"})
		return
	}
	if cars == nil {
		cars = []models.Car{}
	}
	c.JSON(http.StatusOK, gin.H{"data": cars})
}
