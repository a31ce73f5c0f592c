// Команда seed наполняет каталог демонстрационными услугами и недельным расписанием.
// Повторный запуск не создаёт дубликатов: услуги ищутся по названию,
// слоты добавляются только услугам без расписания.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/jwtauth"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type sampleService struct {
	name        string
	description string
	category    domain.Category
	duration    int
	price       string
}

var sampleServices = []sampleService{
	{"General Consultation", "Comprehensive health consultation with an experienced doctor.", domain.CategoryConsultation, 30, "50.00"},
	{"Dental Checkup", "Dental examination including teeth cleaning and oral health assessment.", domain.CategoryDental, 45, "75.00"},
	{"Physical Therapy Session", "Physical therapy session for rehabilitation and pain management.", domain.CategoryTherapy, 60, "90.00"},
	{"Mental Health Counseling", "Confidential counseling session with a licensed therapist.", domain.CategoryMentalHealth, 50, "100.00"},
	{"Nutritional Consultation", "Nutritional guidance and personalized meal planning.", domain.CategoryWellness, 40, "65.00"},
	{"Eye Examination", "Eye health examination and vision testing.", domain.CategoryDiagnostic, 30, "55.00"},
	{"X-Ray Imaging", "Digital X-ray imaging for accurate diagnosis.", domain.CategoryDiagnostic, 20, "85.00"},
	{"Blood Test Panel", "Blood testing including CBC, lipid profile and glucose levels.", domain.CategoryDiagnostic, 15, "120.00"},
	{"Cardiac Consultation", "Specialist consultation for heart-related concerns.", domain.CategorySpecialist, 45, "150.00"},
}

const (
	demoAdminID  = 1
	demoTokenTTL = 24 * time.Hour
)

// Рабочие окна понедельник-пятница
var weekdayWindows = []struct {
	start, end string
	capacity   int
}{
	{"09:00", "12:00", 2},
	{"14:00", "17:00", 2},
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	wrapped := dbmetrics.Wrap(db, nil)
	services := serviceRepo.NewRepository(wrapped)
	slots := slotRepo.NewRepository(wrapped)
	txMgr := txmanager.NewTransactionManager(wrapped)

	var createdServices, createdSlots int
	for _, sample := range sampleServices {
		svc, created, err := ensureService(ctx, services, sample)
		if err != nil {
			log.Fatal("Seed: service %q: %v", sample.name, err)
		}
		if created {
			createdServices++
			log.Info("Seed: service created id=%d name=%q", svc.ID, svc.Name)
		}

		existing, err := slots.ListByService(ctx, svc.ID)
		if err != nil {
			log.Fatal("Seed: list slots for service %d: %v", svc.ID, err)
		}
		if len(existing) > 0 {
			continue
		}

		// Расписание услуги создаётся целиком или не создаётся вовсе
		var n int
		err = txMgr.Do(ctx, func(txCtx context.Context) error {
			n = 0
			for day := domain.Monday; day <= domain.Friday; day++ {
				for _, w := range weekdayWindows {
					_, err := slots.Create(txCtx, &domain.AvailabilitySlot{
						ServiceID:   svc.ID,
						DayOfWeek:   day,
						StartTime:   types.MustTimeString(w.start),
						EndTime:     types.MustTimeString(w.end),
						Capacity:    w.capacity,
						IsAvailable: true,
					})
					if err != nil {
						return err
					}
					n++
				}
			}
			return nil
		})
		if err != nil {
			log.Fatal("Seed: create slots for service %d: %v", svc.ID, err)
		}
		createdSlots += n
	}

	log.Info("Seed completed: services_created=%d slots_created=%d", createdServices, createdSlots)

	// Пользователи живут во внешнем identity provider, поэтому вместо учётной записи
	// администратора выпускаем демонстрационный токен
	if cfg.Auth.Mode == config.AuthModeJWT {
		token, err := jwtauth.Sign(cfg.Auth.JWTSecret, cfg.Auth.Issuer, demoAdminID, string(domain.RoleAdmin), demoTokenTTL)
		if err != nil {
			log.Fatal("Seed: sign demo admin token: %v", err)
		}
		log.Info("Seed: demo admin token (user_id=%d, valid %s): %s", demoAdminID, demoTokenTTL, token)
	}
}

func ensureService(ctx context.Context, repo *serviceRepo.Repository, sample sampleService) (*domain.Service, bool, error) {
	name := sample.name
	found, err := repo.List(ctx, domain.ServiceFilter{Search: &name, IncludeInactive: true})
	if err != nil {
		return nil, false, err
	}
	for _, s := range found {
		if strings.EqualFold(s.Name, sample.name) {
			return s, false, nil
		}
	}

	price, err := decimal.NewFromString(sample.price)
	if err != nil {
		return nil, false, err
	}

	created, err := repo.Create(ctx, &domain.Service{
		Name:            sample.name,
		Description:     sample.description,
		Category:        sample.category,
		DurationMinutes: sample.duration,
		Price:           price,
		IsActive:        true,
	})
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
