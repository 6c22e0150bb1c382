package services

import "github.com/maoshanman/durian-order-bot/internal/models"

// Prompts maps each step to the question sent when the conversation enters it
var Prompts = map[models.Step]string{
	models.StepAwaitName:    "🍉 Welcome to MaoShanMan! What's your name?",
	models.StepAwaitPhone:   "📞 Please enter your phone number:",
	models.StepAwaitDurian:  "🍈 What durian type? E.g. MSW and Black Thorn. Please refer to our Telegram Channel for more info!",
	models.StepAwaitQty:     "⚖️ How many kg? E.g. 2kg MSW and 2kg Black Thorn)",
	models.StepAwaitPacking: "Do you want your durians dehusked and packed into plastic containers? Yes/ No",
	models.StepAwaitAddress: "🏠 Enter delivery address in the following format: Block, Street, #Unit number, Singapore XXXXXX",
	models.StepAwaitDate:    "Thanks for the address! 📅 What's your preferred delivery date? E.g. 25 Jun 25",
	models.StepAwaitTime:    "🕒 Please enter your preferred delivery slot (e.g., 9am-12noon/ 2pm-6pm/ 8pm onwards).",
}

// Fixed replies outside the question sequence
const (
	MsgOrderReceived = "✅ Order received! We'll contact you shortly. Thank you!"
	MsgSaveFailed    = "⚠️ Something went wrong while saving your order. Please /start again to resubmit."
	MsgCancelled     = "❌ Order cancelled. You can /start again anytime."
	MsgNoSession     = "👋 Send /start to place a durian order."
	MsgNotAllowed    = "⛔ You are not allowed to view orders."
	MsgNoOrders      = "📋 No orders yet."
	MsgQueryFailed   = "⚠️ Could not load orders right now. Please try again later."
	MsgGenericError  = "❌ Sorry, something went wrong. Please try again."

	MsgInvalidAddress = "That doesn't look like a valid address. Please enter in the format: Block, Street, #Unit number, Singapore XXXXXX"
)
