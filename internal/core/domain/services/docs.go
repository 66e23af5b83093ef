// Package services holds domain logic that does not belong to a single value object.
//
// StatusMachine applies operator status changes to an Order under the configured
// TransitionPolicy. It never touches storage; the ChangeOrderStatus handler wraps it in a
// locked transaction.
package services
