package store

import (
	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-burgers/internal/model"
)

// Constructor хранит собираемый бургер: слот булки и упорядоченную начинку.
// Все операции синхронны и не обращаются к сети.
type Constructor struct {
	base
	ids   IDGenerator
	state model.Composition
}

// NewConstructor создаёт пустой конструктор. Если ids равен nil, используется UUIDGenerator.
func NewConstructor(ids IDGenerator, logger *zap.Logger) *Constructor {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	s := &Constructor{
		ids:   ids,
		state: initialComposition(),
	}
	s.init(logger)
	return s
}

func initialComposition() model.Composition {
	return model.Composition{Fillings: []model.ConstructorIngredient{}}
}

// Add помещает булку в слот, а остальные ингредиенты добавляет в конец начинки
// с новым идентификатором размещения.
func (s *Constructor) Add(ing model.Ingredient) {
	if ing.IsBun() {
		s.SetBun(ing)
		return
	}

	placed := model.ConstructorIngredient{
		Ingredient:  ing,
		PlacementID: s.ids.NewID(),
	}
	s.update(func() {
		s.state.Fillings = append(s.state.Fillings, placed)
	})
}

// SetBun заменяет булку; начинка не меняется.
func (s *Constructor) SetBun(ing model.Ingredient) {
	s.update(func() {
		bun := ing
		s.state.Bun = &bun
	})
}

// RemoveFilling удаляет элемент начинки с указанным идентификатором размещения.
func (s *Constructor) RemoveFilling(placementID string) {
	s.update(func() {
		for i, f := range s.state.Fillings {
			if f.PlacementID == placementID {
				s.state.Fillings = append(s.state.Fillings[:i:i], s.state.Fillings[i+1:]...)
				return
			}
		}
	})
}

// MoveUp меняет местами элемент index с предыдущим. Первый элемент и индексы
// вне диапазона игнорируются.
func (s *Constructor) MoveUp(index int) {
	s.update(func() {
		if index <= 0 || index >= len(s.state.Fillings) {
			return
		}
		f := s.state.Fillings
		f[index-1], f[index] = f[index], f[index-1]
	})
}

// MoveDown меняет местами элемент index со следующим. Последний элемент и индексы
// вне диапазона игнорируются.
func (s *Constructor) MoveDown(index int) {
	s.update(func() {
		if index < 0 || index >= len(s.state.Fillings)-1 {
			return
		}
		f := s.state.Fillings
		f[index], f[index+1] = f[index+1], f[index]
	})
}

// Clear возвращает конструктор к пустому составу.
func (s *Constructor) Clear() {
	s.update(func() {
		s.state = initialComposition()
	})
}

// State возвращает копию текущего состава.
func (s *Constructor) State() model.Composition {
	var c model.Composition
	s.read(func() {
		c = s.state.Clone()
	})
	return c
}

func (s *Constructor) reset() {
	s.Clear()
}
