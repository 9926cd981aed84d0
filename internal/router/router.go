package router

import (
	"time"

	"filazero/internal/config"
	"filazero/internal/engine"
	"filazero/internal/handler"
	"filazero/internal/middleware"
	"filazero/internal/repository"
	"filazero/internal/service"
	"filazero/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	pedidoRepo := repository.NewPedidoRepository(db)
	pagamentoRepo := repository.NewPagamentoRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	hub := engine.NewHub()

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	caixaSvc := service.NewCaixaService(caixaRepo, cfg.CaixaAlertaHoras)
	pedidoSvc := service.NewPedidoService(pedidoRepo, hub)
	pagamentoSvc := service.NewPagamentoService(pedidoRepo, pagamentoRepo, caixaRepo, caixaSvc, hub, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	pagamentosH := handler.NewPagamentosHandler(pagamentoSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		pedidos := v1.Group("/pedidos")
		{
			pedidos.POST("", pedidosH.Criar)
			pedidos.GET("/:id", pedidosH.Obter)
			pedidos.DELETE("/:id", pedidosH.Cancelar)

			pedidos.GET("/:id/itens", pedidosH.ListarItens)
			pedidos.PUT("/:id/itens", pedidosH.SalvarItens)

			pedidos.GET("/:id/desconto", pedidosH.ObterAjuste)
			pedidos.PUT("/:id/desconto", pedidosH.AplicarAjuste)
			pedidos.DELETE("/:id/desconto", pedidosH.RemoverAjuste)
			pedidos.GET("/:id/acrescimo", pedidosH.ObterAjuste)
			pedidos.PUT("/:id/acrescimo", pedidosH.AplicarAjuste)
			pedidos.DELETE("/:id/acrescimo", pedidosH.RemoverAjuste)

			pedidos.GET("/:id/pagamentos", pagamentosH.Listar)
			pedidos.POST("/:id/pagamentos", pagamentosH.Quitar)
		}

		v1.DELETE("/pagamentos/:id", pagamentosH.Remover)

		caixas := v1.Group("/caixas")
		{
			caixas.POST("/abrir", caixaH.Abrir)
			caixas.GET("/status", caixaH.Status)
			caixas.GET("/abertos", caixaH.ListAbertos)
			caixas.GET("/:id", caixaH.Obter)
			caixas.PUT("/:id/fechar", caixaH.Fechar)
			caixas.POST("/:id/movimentacoes", caixaH.RegistrarMovimentacao)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
