package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"lensadmin/internal/domain/lens"
)

// seedRecord - запись файла с начальными данными
type seedRecord struct {
	ID           string  `yaml:"id"`
	LensType     string  `yaml:"lens_type"`
	Sphere       string  `yaml:"sphere"`
	Cylinder     string  `yaml:"cylinder"`
	UnitPrice    string  `yaml:"unit_price"`
	Quantity     string  `yaml:"quantity"`
	StorageLimit string  `yaml:"storage_limit"`
	Comment      *string `yaml:"comment"`
}

func (r seedRecord) form() lens.Form {
	f := lens.Form{
		ID:           r.ID,
		LensType:     r.LensType,
		Sphere:       r.Sphere,
		Cylinder:     r.Cylinder,
		UnitPrice:    r.UnitPrice,
		Quantity:     r.Quantity,
		StorageLimit: r.StorageLimit,
	}
	if r.Comment != nil {
		f.Comment = *r.Comment
	}
	return f
}

const loremComment = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor " +
	"incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation " +
	"ullamco laboris nisi ut aliquip ex ea commodo consequat. Duis aute irure dolor in reprehenderit in " +
	"voluptate velit esse cillum dolore eu fugiat nulla pariatur. Excepteur sint occaecat cupidatat non " +
	"proident, sunt in culpa qui officia deserunt mollit anim id est laborum."

// BuiltinSeed возвращает тестовый набор из десяти линз.
func BuiltinSeed() []lens.Form {
	return []lens.Form{
		{ID: "1", LensType: "CR39", Sphere: "-2.0", Cylinder: "-0.75", UnitPrice: "45.0", StorageLimit: "100", Quantity: "42"},
		{ID: "2", LensType: "Polycarbonate", Sphere: "-1.25", Cylinder: "0.0", UnitPrice: "55.0", StorageLimit: "80", Quantity: "15"},
		{ID: "3", LensType: "Trivex", Sphere: "0.0", Cylinder: "-1.25", UnitPrice: "60.0", StorageLimit: "60", Quantity: "10"},
		{ID: "4", LensType: "High Index 1.67", Sphere: "-5.0", Cylinder: "-0.5", UnitPrice: "95.0", StorageLimit: "50", Quantity: "25"},
		{ID: "5", LensType: "High Index 1.74", Sphere: "-6.5", Cylinder: "-2.0", UnitPrice: "120.0", StorageLimit: "30", Quantity: "5"},
		{ID: "6", LensType: "Trivex", Sphere: "1.75", Cylinder: "-1.00", UnitPrice: "75.00", StorageLimit: "100", Quantity: "15"},
		{ID: "7", LensType: "CR39", Sphere: "0.00", Cylinder: "0.00", UnitPrice: "40.00", StorageLimit: "100", Quantity: "25"},
		{ID: "8", LensType: "Polycarbonate", Sphere: "-6.00", Cylinder: "-2.00", UnitPrice: "70.00", StorageLimit: "100", Quantity: "27"},
		{ID: "9", LensType: "Trivex", Sphere: "-3.50", Cylinder: "-1.75", UnitPrice: "80.00", StorageLimit: "25", Quantity: "10", Comment: loremComment},
		{ID: "10", LensType: "Trivex", Sphere: "1.75", Cylinder: "2.00", UnitPrice: "75.00", StorageLimit: "25", Quantity: "10"},
	}
}

// LoadSeedFile читает YAML-список линз в формате тела POST /lenses.
func LoadSeedFile(path string) ([]lens.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	var records []seedRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("ошибка парсинга файла %s: %w", path, err)
	}

	forms := make([]lens.Form, 0, len(records))
	for _, r := range records {
		forms = append(forms, r.form())
	}
	return forms, nil
}

// lensStep - шаг оптической силы, дптр
var lensStep = decimal.New(25, -2)

// FakeSeed генерирует n случайных линз с id начиная со startID.
// seed = 0 - случайное зерно.
func FakeSeed(n int, startID int64, seed uint64) []lens.Form {
	f := gofakeit.New(seed)

	types := make([]string, 0, len(lens.Types))
	for _, t := range lens.Types {
		types = append(types, string(t))
	}

	forms := make([]lens.Form, 0, n)
	for i := 0; i < n; i++ {
		form := lens.Form{
			ID:        strconv.FormatInt(startID+int64(i), 10),
			LensType:  f.RandomString(types),
			Sphere:    lensStep.Mul(decimal.NewFromInt(int64(f.Number(-40, 24)))).StringFixed(2),
			Cylinder:  lensStep.Mul(decimal.NewFromInt(int64(f.Number(-16, 0)))).StringFixed(2),
			UnitPrice: decimal.NewFromFloat(f.Price(30, 150)).StringFixed(2),
			Quantity:  strconv.Itoa(f.Number(0, 60)),
		}
		if f.Bool() {
			form.StorageLimit = strconv.Itoa(f.Number(20, 120))
		}
		if f.Number(1, 4) == 1 {
			form.Comment = f.Sentence(6)
		}
		forms = append(forms, form)
	}
	return forms
}

// NewSeedLimiter ограничивает число запросов в секунду; perSecond <= 0 - без ограничения.
func NewSeedLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// SeedFailure - запись, которую не удалось создать
type SeedFailure struct {
	ID  string
	Err error
}

type SeedResult struct {
	Created []int64
	Failed  []SeedFailure
}

// Seed создает линзы по одной, каждая - отдельный запрос без повторов.
// Ошибка отдельной записи не прерывает загрузку; прерывает только отмена контекста.
func (a *App) Seed(ctx context.Context, forms []lens.Form, limiter *rate.Limiter) (*SeedResult, error) {
	result := &SeedResult{}

	for _, form := range forms {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result, fmt.Errorf("загрузка прервана: %w", err)
			}
		}

		created, err := a.CreateLens(ctx, form)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return result, fmt.Errorf("загрузка прервана: %w", ctx.Err())
			}
			a.log.Warn("Не удалось создать линзу", "id", form.ID, "error", err)
			result.Failed = append(result.Failed, SeedFailure{ID: form.ID, Err: err})
			continue
		}
		result.Created = append(result.Created, created.ID)
	}

	return result, nil
}
