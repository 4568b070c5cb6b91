package controller

import (
	"github.com/ougirez/injuries/internal/service/insights"
)

type Controller struct {
	service *insights.Service
}

func NewController(service *insights.Service) *Controller {
	return &Controller{service: service}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
