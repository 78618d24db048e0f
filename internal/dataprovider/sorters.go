package dataprovider

// Sorters - состояние сортировки таблицы. Переключение поля идет по циклу
// asc -> desc -> без сортировки; в эксклюзивном режиме остается только последнее правило.
type Sorters struct {
	exclusive bool
	items     []Sorter
}

// NewSorters создает состояние сортировки.
func NewSorters(exclusive bool, initial ...Sorter) *Sorters {
	s := &Sorters{exclusive: exclusive}
	for _, item := range initial {
		s.Set(item.Field, item.Order)
	}
	return s
}

// Set задает правило для поля, заменяя существующее на его месте.
func (s *Sorters) Set(field string, order Order) {
	if s.exclusive {
		s.items = []Sorter{{Field: field, Order: order}}
		return
	}
	for i := range s.items {
		if s.items[i].Field == field {
			s.items[i].Order = order
			return
		}
	}
	s.items = append(s.items, Sorter{Field: field, Order: order})
}

// Toggle переключает поле: asc -> desc -> без сортировки.
func (s *Sorters) Toggle(field string) {
	for i, item := range s.items {
		if item.Field != field {
			continue
		}
		if item.Order == OrderAsc {
			s.Set(field, OrderDesc)
			return
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		return
	}
	s.Set(field, OrderAsc)
}

func (s *Sorters) Clear() {
	s.items = nil
}

// List возвращает копию правил в порядке применения.
func (s *Sorters) List() []Sorter {
	if len(s.items) == 0 {
		return nil
	}
	out := make([]Sorter, len(s.items))
	copy(out, s.items)
	return out
}
