package service

import (
	"strconv"
	"strings"

	"github.com/noah-isme/companies-api/internal/models"
)

// AggregateOrganizations collects the organizations of every activity, keeping the first
// occurrence of each organization in traversal order.
func AggregateOrganizations(activities []models.Activity) []models.Organization {
	seen := make(map[string]struct{})
	var result []models.Organization
	for _, activity := range activities {
		for _, organization := range activity.Organizations {
			key := organizationKey(organization)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			result = append(result, organization)
		}
	}
	return result
}

// organizationKey identifies an organization by id, or by name and phones when unsaved.
func organizationKey(organization models.Organization) string {
	if organization.ID != 0 {
		return "id:" + strconv.FormatUint(uint64(organization.ID), 10)
	}
	phones := make([]string, 0, len(organization.PhoneNumbers))
	for _, phone := range organization.PhoneNumbers {
		phones = append(phones, phone.PhoneNumber)
	}
	return "value:" + organization.Name + "|" + strings.Join(phones, ",")
}
