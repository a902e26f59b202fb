// PaiBan 排班引擎服务
// 主程序入口

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/paiban/internal/config"
	"github.com/paiban/paiban/internal/database"
	"github.com/paiban/paiban/internal/handler"
	"github.com/paiban/paiban/pkg/logger"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// 初始化日志
	logger.Init(logger.Config{
		Level:  os.Getenv("APP_LOG_LEVEL"),
		Format: "console",
	})

	// 打印版本信息
	fmt.Printf("PaiBan 排班引擎 v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		logger.Error().Err(err).Msg("加载配置失败")
		os.Exit(1)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Error().Err(err).Msg("连接数据库失败")
		os.Exit(1)
	}
	defer db.Close()

	// 创建处理器
	organizationHandler := handler.NewOrganizationHandler(db)
	scheduleHandler := handler.NewScheduleHandler(db)
	employeeHandler := handler.NewEmployeeHandler(db)
	shiftTypeHandler := handler.NewShiftTypeHandler(db)
	assignmentHandler := handler.NewAssignmentHandler(db)

	// 创建 HTTP 服务器
	mux := http.NewServeMux()

	// ========================================
	// 系统端点
	// ========================================

	// 健康检查端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"paiban"}`))
	})

	// 版本信息端点
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})

	// ========================================
	// API v1 端点
	// ========================================

	// API 根路由
	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"message": "PaiBan 月度排班 API v1",
			"endpoints": {
				"organizations": {
					"list": "GET /api/v1/orgs",
					"create": "POST /api/v1/orgs",
					"get": "GET /api/v1/orgs/{org_id}",
					"update": "PATCH /api/v1/orgs/{org_id}",
					"delete": "DELETE /api/v1/orgs/{org_id}"
				},
				"schedule": {
					"generate": "POST /api/v1/orgs/{org_id}/schedule/generate?month=YYYY-MM",
					"fill_off": "POST /api/v1/orgs/{org_id}/schedule/fill-off?month=YYYY-MM"
				},
				"employees": {
					"list": "GET /api/v1/orgs/{org_id}/employees",
					"create": "POST /api/v1/orgs/{org_id}/employees",
					"update": "PATCH /api/v1/orgs/{org_id}/employees/{employee_id}",
					"delete": "DELETE /api/v1/orgs/{org_id}/employees/{employee_id}"
				},
				"shift_types": {
					"list": "GET /api/v1/orgs/{org_id}/shift-types",
					"create": "POST /api/v1/orgs/{org_id}/shift-types",
					"update": "PATCH /api/v1/orgs/{org_id}/shift-types/{shift_type_id}",
					"delete": "DELETE /api/v1/orgs/{org_id}/shift-types/{shift_type_id}"
				},
				"assignments": {
					"list": "GET /api/v1/orgs/{org_id}/assignments?month=YYYY-MM",
					"upsert": "PUT /api/v1/orgs/{org_id}/assignments",
					"bulk_upsert": "POST /api/v1/orgs/{org_id}/assignments/bulk"
				}
			}
		}`))
	})

	// 组织档案 API（先建立组织才有 org_id 可用于其余端点）
	mux.HandleFunc("GET /api/v1/orgs", organizationHandler.List)
	mux.HandleFunc("POST /api/v1/orgs", organizationHandler.Create)
	mux.HandleFunc("GET /api/v1/orgs/{org_id}", organizationHandler.Get)
	mux.HandleFunc("PATCH /api/v1/orgs/{org_id}", organizationHandler.Update)
	mux.HandleFunc("DELETE /api/v1/orgs/{org_id}", organizationHandler.Delete)

	// 排班生成与补班 API（每个组织独立的月度班表，故以 org_id 为路径前缀）
	mux.HandleFunc("POST /api/v1/orgs/{org_id}/schedule/generate", scheduleHandler.Generate)
	mux.HandleFunc("POST /api/v1/orgs/{org_id}/schedule/fill-off", scheduleHandler.FillOff)

	// 员工档案 API
	mux.HandleFunc("GET /api/v1/orgs/{org_id}/employees", employeeHandler.List)
	mux.HandleFunc("POST /api/v1/orgs/{org_id}/employees", employeeHandler.Create)
	mux.HandleFunc("PATCH /api/v1/orgs/{org_id}/employees/{employee_id}", employeeHandler.Update)
	mux.HandleFunc("DELETE /api/v1/orgs/{org_id}/employees/{employee_id}", employeeHandler.Delete)

	// 班别定义 API
	mux.HandleFunc("GET /api/v1/orgs/{org_id}/shift-types", shiftTypeHandler.List)
	mux.HandleFunc("POST /api/v1/orgs/{org_id}/shift-types", shiftTypeHandler.Create)
	mux.HandleFunc("PATCH /api/v1/orgs/{org_id}/shift-types/{shift_type_id}", shiftTypeHandler.Update)
	mux.HandleFunc("DELETE /api/v1/orgs/{org_id}/shift-types/{shift_type_id}", shiftTypeHandler.Delete)

	// 排班纪录 API
	mux.HandleFunc("GET /api/v1/orgs/{org_id}/assignments", assignmentHandler.List)
	mux.HandleFunc("PUT /api/v1/orgs/{org_id}/assignments", assignmentHandler.Upsert)
	mux.HandleFunc("POST /api/v1/orgs/{org_id}/assignments/bulk", assignmentHandler.BulkUpsert)

	// ========================================
	// 中间件
	// ========================================

	// 创建带中间件的处理器
	// 中间件执行顺序：requestID -> rateLimit -> cors -> logging -> handler
	rootHandler := requestIDMiddleware(rateLimitMiddleware(corsMiddleware(loggingMiddleware(mux))))

	port := fmt.Sprintf("%d", cfg.App.Port)
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      rootHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 启动服务器（非阻塞）
	go func() {
		logger.Info().
			Str("port", port).
			Str("version", Version).
			Str("url", fmt.Sprintf("http://localhost:%s", port)).
			Str("api_docs", fmt.Sprintf("http://localhost:%s/api/v1/", port)).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}

// requestIDMiddleware 请求ID追踪中间件
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 尝试从请求头获取 Request ID，没有则生成新的
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		// 设置响应头
		w.Header().Set("X-Request-ID", requestID)

		// 将 Request ID 存储到 context 中
		ctx := context.WithValue(r.Context(), requestIDContextKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type requestIDContextKey struct{}

// loggingMiddleware 日志中间件
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// 获取 Request ID
		requestID, _ := r.Context().Value(requestIDContextKey{}).(string)

		// 包装ResponseWriter以捕获状态码
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", duration).
			Msg("请求处理")
	})
}

// responseWriter 包装ResponseWriter以捕获状态码
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RateLimiter 简单的令牌桶限流器
type RateLimiter struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // 每秒添加的令牌数
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter 创建限流器
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	return &RateLimiter{
		tokens:     requestsPerSecond,
		maxTokens:  requestsPerSecond * 2, // 允许突发流量
		refillRate: requestsPerSecond,
		lastRefill: time.Now(),
	}
}

// Allow 检查是否允许请求
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens += elapsed * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

var globalRateLimiter = NewRateLimiter(100) // 默认 100 QPS

// rateLimitMiddleware 限流中间件
func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !globalRateLimiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":   true,
				"code":    "RATE_LIMITED",
				"message": "请求过于频繁，请稍后重试",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware CORS中间件
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
