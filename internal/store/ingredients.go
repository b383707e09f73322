package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers/internal/model"
)

// IngredientsState описывает состояние каталога ингредиентов.
type IngredientsState struct {
	Ingredients []model.Ingredient `json:"ingredients"`
	Request
}

// Ingredients хранит каталог, загруженный с бэкенда.
type Ingredients struct {
	base
	api   IngredientsAPI
	fetch *family
	state IngredientsState
}

// NewIngredients создаёт хранилище каталога с пустым начальным состоянием.
func NewIngredients(api IngredientsAPI, logger *zap.Logger) *Ingredients {
	s := &Ingredients{
		api:   api,
		fetch: newFamily("ingredients/getIngredients"),
		state: initialIngredients(),
	}
	s.init(logger)
	return s
}

func initialIngredients() IngredientsState {
	return IngredientsState{Ingredients: []model.Ingredient{}}
}

// Fetch загружает каталог и заменяет его целиком. При ошибке прежний список сохраняется.
func (s *Ingredients) Fetch(ctx context.Context) ([]model.Ingredient, error) {
	return run(ctx, &s.base, s.fetch, &s.state.Request, s.api.GetIngredients, transitions[[]model.Ingredient]{
		succeeded: func(res []model.Ingredient) {
			s.state.Ingredients = cloneIngredients(res)
		},
	})
}

// State возвращает копию состояния каталога.
func (s *Ingredients) State() IngredientsState {
	var st IngredientsState
	s.read(func() {
		st = s.state
		st.Ingredients = cloneIngredients(s.state.Ingredients)
	})
	return st
}

// ByID ищет ингредиент каталога по идентификатору.
func (s *Ingredients) ByID(id string) (model.Ingredient, bool) {
	var (
		res   model.Ingredient
		found bool
	)
	s.read(func() {
		for _, ing := range s.state.Ingredients {
			if ing.ID == id {
				res, found = ing, true
				return
			}
		}
	})
	return res, found
}

// ByType возвращает ингредиенты указанной категории в порядке каталога.
func (s *Ingredients) ByType(t model.IngredientType) []model.Ingredient {
	res := []model.Ingredient{}
	s.read(func() {
		for _, ing := range s.state.Ingredients {
			if ing.Type == t {
				res = append(res, ing)
			}
		}
	})
	return res
}

func (s *Ingredients) reset() {
	s.update(func() {
		s.state = initialIngredients()
	})
}

func cloneIngredients(src []model.Ingredient) []model.Ingredient {
	res := make([]model.Ingredient, len(src))
	copy(res, src)
	return res
}
