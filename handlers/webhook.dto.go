package handlers

import (
	"encoding/json"

	"fitFlowAPI/internal/user"
)

type clerkWebhookEvent struct {
	Type   string          `json:"type"`
	Object string          `json:"object"`
	Data   json.RawMessage `json:"data"`
}

type clerkEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
	Verification *struct {
		Status string `json:"status"`
	} `json:"verification"`
}

type clerkUserData struct {
	ID                    string              `json:"id"`
	FirstName             string              `json:"first_name"`
	LastName              string              `json:"last_name"`
	ImageURL              string              `json:"image_url"`
	ProfileImageURL       string              `json:"profile_image_url"`
	PrimaryEmailAddressID string              `json:"primary_email_address_id"`
	EmailAddresses        []clerkEmailAddress `json:"email_addresses"`
}

// primaryEmail returns the primary address, else the first one.
func (d clerkUserData) primaryEmail() (string, bool) {
	var picked *clerkEmailAddress
	for i := range d.EmailAddresses {
		e := &d.EmailAddresses[i]
		if e.ID == d.PrimaryEmailAddressID || picked == nil {
			picked = e
		}
		if e.ID == d.PrimaryEmailAddressID {
			break
		}
	}
	if picked == nil {
		return "", false
	}
	return picked.EmailAddress, picked.Verification != nil && picked.Verification.Status == "verified"
}

func (d clerkUserData) createRequest() user.CreateUserRequest {
	email, verified := d.primaryEmail()
	imageURL := d.ImageURL
	if imageURL == "" {
		imageURL = d.ProfileImageURL
	}
	return user.CreateUserRequest{
		Email:         email,
		EmailVerified: verified,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		ImageURL:      imageURL,
	}
}
