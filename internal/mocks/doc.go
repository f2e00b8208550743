// Package mocks provides shared test doubles.
//
// Store and card service mocks are built on testify's mock.Mock and are
// driven with On/Return expectations. MockCardReviewService uses function
// fields with default return values so that handler tests set only what
// they exercise:
//
//	reviews := mocks.NewMockCardReviewService(mocks.WithNextCard(card))
//	handler := api.NewCardHandler(reviews, &mocks.MockCardService{}, logger)
package mocks
