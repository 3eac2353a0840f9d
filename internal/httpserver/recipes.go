package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	domain "foodie/backend/internal/domain/recipe"
	recipeusecase "foodie/backend/internal/usecase/recipe"
)

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		count, err := queryInt(r, "count", 0)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "count must be an integer")
			return
		}
		offset, err := queryInt(r, "offset", 0)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "offset must be an integer")
			return
		}

		recipes, err := s.recipeService.Page(ctx, count, offset)
		if err != nil {
			s.writeRecipeError(ctx, w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{
			"data": map[string]any{"recipes": recipes},
		})
	case http.MethodPost:
		var payload recipeusecase.CreateInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeFail(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		recipe, err := s.recipeService.Create(ctx, payload)
		if err != nil {
			s.writeRecipeError(ctx, w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{
			"data": map[string]any{"recipe": recipe},
		})
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleRecipeByID(w http.ResponseWriter, r *http.Request) {
	remainder := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/recipes/"), "/")
	if remainder == "" {
		writeFail(w, http.StatusBadRequest, "recipe id required")
		return
	}

	segments := strings.Split(remainder, "/")
	id := segments[0]

	switch len(segments) {
	case 1:
		s.handleRecipe(w, r, id)
	case 2:
		if segments[1] != "ingredients" {
			writeFail(w, http.StatusNotFound, "resource not found")
			return
		}
		s.handleIngredients(w, r, id)
	case 3:
		if segments[1] != "ingredients" {
			writeFail(w, http.StatusNotFound, "resource not found")
			return
		}
		ingredientID, err := strconv.ParseInt(segments[2], 10, 64)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "ingredient id must be an integer")
			return
		}
		s.handleIngredientByID(w, r, id, ingredientID)
	default:
		writeFail(w, http.StatusNotFound, "resource not found")
	}
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		recipe, err := s.recipeService.Get(ctx, id)
		if err != nil {
			s.writeRecipeError(ctx, w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{
			"data": map[string]any{"recipe": recipe},
		})
	case http.MethodPut, http.MethodPatch:
		var payload recipeusecase.UpdateInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeFail(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		recipe, err := s.recipeService.Update(ctx, id, payload)
		if err != nil {
			s.writeRecipeError(ctx, w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{
			"data": map[string]any{"recipe": recipe},
		})
	case http.MethodDelete:
		if err := s.recipeService.Delete(ctx, id); err != nil {
			s.writeRecipeError(ctx, w, err)
			return
		}
		writeSuccess(w, http.StatusOK, nil)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) handleIngredients(w http.ResponseWriter, r *http.Request, recipeID string) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		count, err := queryInt(r, "count", 0)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "count must be an integer")
			return
		}
		offset, err := queryInt(r, "offset", 0)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "offset must be an integer")
			return
		}

		ingredients, err := s.recipeService.PageIngredients(ctx, recipeID, count, offset)
		if err != nil {
			s.writeRecipeError(ctx, w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{
			"data": map[string]any{"ingredients": ingredients},
		})
	case http.MethodPost:
		var payload recipeusecase.IngredientInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeFail(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		ingredient, err := s.recipeService.AddIngredient(ctx, recipeID, payload)
		if err != nil {
			s.writeRecipeError(ctx, w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{
			"data": map[string]any{"ingredient": ingredient},
		})
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleIngredientByID(w http.ResponseWriter, r *http.Request, recipeID string, ingredientID int64) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		var payload recipeusecase.IngredientInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeFail(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		ingredient, err := s.recipeService.UpdateIngredient(ctx, recipeID, ingredientID, payload)
		if err != nil {
			s.writeRecipeError(ctx, w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{
			"data": map[string]any{"ingredient": ingredient},
		})
	case http.MethodDelete:
		if err := s.recipeService.RemoveIngredient(ctx, recipeID, ingredientID); err != nil {
			s.writeRecipeError(ctx, w, err)
			return
		}
		writeSuccess(w, http.StatusOK, nil)
	default:
		writeMethodNotAllowed(w, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

// writeRecipeError maps domain sentinels to client-facing responses.
// Anything unrecognized is a malfunction: it is logged and answered
// with an opaque 500 so storage details never reach the client.
func (s *Server) writeRecipeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrIngredientNotFound):
		writeFail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrPageTooBig), errors.Is(err, domain.ErrInvalidInput):
		writeFail(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error(ctx, "recipe request failed", "error", err)
		writeFail(w, http.StatusInternalServerError, "internal error")
	}
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
