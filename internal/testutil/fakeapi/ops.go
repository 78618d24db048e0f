package fakeapi

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) setupRoutes(api huma.API) {
	api.UseMiddleware(s.logRequest)

	huma.Register(api, s.listOp(), s.list)
	huma.Register(api, s.findOp(), s.find)
	huma.Register(api, s.createOp(), s.create)
	huma.Register(api, s.updateOp(), s.update)
}

func (s *Server) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "list-lenses",
		Method:      http.MethodGet,
		Path:        BasePath + "/lenses",
		Summary:     "Список линз",
		Tags:        []string{"lenses"},
	}
}

func (s *Server) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "get-lens",
		Method:      http.MethodGet,
		Path:        BasePath + "/lenses/{id}",
		Summary:     "Получить линзу",
		Tags:        []string{"lenses"},
	}
}

func (s *Server) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "create-lens",
		Method:        http.MethodPost,
		Path:          BasePath + "/lenses",
		Summary:       "Создать линзу",
		Tags:          []string{"lenses"},
		DefaultStatus: http.StatusOK,
	}
}

func (s *Server) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "update-lens",
		Method:      http.MethodPut,
		Path:        BasePath + "/lenses/{id}",
		Summary:     "Обновить линзу",
		Tags:        []string{"lenses"},
	}
}
