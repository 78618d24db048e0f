package fakeapi

import (
	"lensadmin/internal/domain/lens"
)

type listInput struct {
	Range  string `query:"range" doc:"JSON [start, end]"`
	Sort   string `query:"sort" doc:"JSON [[field, order], ...]"`
	Filter string `query:"filter" doc:"JSON array of filter directives"`
}

type listOutput struct {
	TotalCount string `header:"x-total-count"`
	Body       []lens.Lens
}

type findInput struct {
	ID int64 `path:"id" example:"1" doc:"ID линзы"`
}

type createInput struct {
	RawBody []byte
}

type updateInput struct {
	ID      int64 `path:"id" example:"1" doc:"ID линзы"`
	RawBody []byte
}

type output struct {
	Body lens.Lens
}
