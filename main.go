package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/priyansh-dev/attendancebackend/config"
	"github.com/priyansh-dev/attendancebackend/database"
	"github.com/priyansh-dev/attendancebackend/handlers"
	"github.com/priyansh-dev/attendancebackend/media"
	"github.com/priyansh-dev/attendancebackend/recognition"
	"github.com/priyansh-dev/attendancebackend/repository"
	"github.com/priyansh-dev/attendancebackend/services"
	"github.com/priyansh-dev/attendancebackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.StudentPhotosPath, cfg.GroupPhotosPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypeStudentPhoto: filepath.Base(cfg.StudentPhotosPath),
		media.AssetTypeGroupPhoto:   filepath.Base(cfg.GroupPhotosPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}

	detectorParams := recognition.DetectorParams{
		ScaleFactor:  cfg.DetectScaleFactor,
		MinNeighbors: cfg.DetectNeighbors,
		MinFaceSize:  cfg.DetectMinFaceSize,
	}
	locator, err := recognition.NewCascadeLocator(cfg.CascadePath, detectorParams)
	if err != nil {
		log.Fatalf("FATAL: Failed to load face cascade: %v", err)
	}
	defer locator.Close()

	studentRepo := repository.NewStudentRepository(db)
	eventRepo := repository.NewEventRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	enrollmentSource := &services.EnrollmentSource{Students: studentRepo, Store: mediaStore}
	trainer := recognition.NewTrainer(locator, enrollmentSource)
	modelManager := recognition.NewModelManager(trainer.Train)
	engine := recognition.NewEngine(locator, modelManager)

	notifier := &services.RecordingNotifier{Repo: notificationRepo}
	attendanceService := services.NewAttendanceService(
		studentRepo, eventRepo, attendanceRepo, submissionRepo,
		engine, notifier, cfg.ConfidenceThreshold)

	log.Printf("Initializing photo validation worker pool (Workers: %d, Queue Size: %d)...", cfg.NumPhotoWorkers, cfg.PhotoQueueSize)
	locatorFactory := func() (recognition.FaceLocator, error) {
		return recognition.NewCascadeLocator(cfg.CascadePath, detectorParams)
	}
	photoValidator := workers.NewPhotoValidator(studentRepo, locatorFactory, cfg.PhotoQueueSize, cfg.NumPhotoWorkers)
	defer photoValidator.Stop()

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing student photos in: %s", cfg.StudentPhotosPath)
	log.Printf("Storing group photos in: %s", cfg.GroupPhotosPath)
	log.Printf("Recognition confidence threshold: %g", cfg.ConfidenceThreshold)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	studentHandler := &handlers.StudentHandler{Repo: studentRepo, Store: mediaStore, Validator: photoValidator}
	eventHandler := &handlers.EventHandler{Events: eventRepo, Attendances: attendanceRepo, Submissions: submissionRepo}
	attendanceHandler := &handlers.AttendanceHandler{Service: attendanceService, Students: studentRepo, Store: mediaStore, ReportDB: sqlDB}
	notificationHandler := &handlers.NotificationHandler{Notifications: notificationRepo, Students: studentRepo}
	recognitionHandler := &handlers.RecognitionHandler{Manager: modelManager}

	actorToken := handlers.ActorTokenMiddleware(cfg.ActorTokenHash)

	r.Route("/api", func(r chi.Router) {
		r.Route("/students", func(r chi.Router) {
			r.With(actorToken).Post("/", studentHandler.CreateStudent)
			r.Get("/", studentHandler.ListStudents)
			r.Route("/{student_id}", func(r chi.Router) {
				r.Get("/", studentHandler.GetStudent)
				r.With(actorToken).Put("/photo", studentHandler.UploadPhoto)
				r.With(actorToken).Put("/active", studentHandler.SetActive)
				r.Get("/notifications", notificationHandler.Feed)
				r.With(actorToken).Post("/notifications/read", notificationHandler.MarkRead)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.ListEvents)
			r.Route("/{event_id}", func(r chi.Router) {
				r.Get("/", eventHandler.GetEvent)
				r.Get("/attendance", eventHandler.ListEventAttendance)
				r.Get("/submissions", eventHandler.ListEventSubmissions)
				r.With(actorToken).Post("/attendance/photo", attendanceHandler.SubmitGroupPhoto)
				r.With(actorToken).Post("/attendance/manual", attendanceHandler.ManualAttendance)
			})
		})

		r.Get("/attendance", attendanceHandler.ListRecords)

		r.Route("/recognition", func(r chi.Router) {
			r.Get("/status", recognitionHandler.Status)
			r.With(actorToken).Post("/retrain", recognitionHandler.Retrain)
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
