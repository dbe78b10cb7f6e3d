package main

import (
	"fmt"
	"net/http"

	"github.com/punchcard-hq/punchcard-backend-go/internal/config"
	appHTTP "github.com/punchcard-hq/punchcard-backend-go/internal/handler/http"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/database"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/events"
	"github.com/punchcard-hq/punchcard-backend-go/internal/pkg/jwt"
	"github.com/punchcard-hq/punchcard-backend-go/internal/repository/postgresql"
	attendanceService "github.com/punchcard-hq/punchcard-backend-go/internal/service/attendance"
	correctionService "github.com/punchcard-hq/punchcard-backend-go/internal/service/correction"
	leaveService "github.com/punchcard-hq/punchcard-backend-go/internal/service/leave"
	policyService "github.com/punchcard-hq/punchcard-backend-go/internal/service/policy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	breakRepo := postgresql.NewBreakRepository(db)
	dayRepo := postgresql.NewAttendanceDayRepository(db, breakRepo)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	policyRepo := postgresql.NewPolicyRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := events.NewHub()

	policyStore := policyService.NewStore(policyRepo, holidayRepo)
	policySvc := policyService.NewPolicyService(policyRepo, holidayRepo, policyStore)
	attendanceSvc := attendanceService.NewAttendanceService(db, dayRepo, breakRepo, policyStore, hub)
	correctionSvc := correctionService.NewCorrectionService(db, correctionRepo, dayRepo, breakRepo, employeeRepo, policyStore, hub)
	leaveSvc := leaveService.NewLeaveService(db, leaveTypeRepo, leaveRequestRepo, leaveBalanceRepo, dayRepo, hub)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	correctionHandler := appHTTP.NewCorrectionHandler(correctionSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	policyHandler := appHTTP.NewPolicyHandler(policySvc)
	eventsHandler := appHTTP.NewEventsHandler(hub, jwtService)

	router := appHTTP.NewRouter(
		jwtService,
		attendanceHandler,
		correctionHandler,
		leaveHandler,
		policyHandler,
		eventsHandler,
		cfg.App.AllowedOrigins,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
