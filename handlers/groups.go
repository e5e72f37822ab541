package handlers

import (
	"notesphere/app"
	"notesphere/middleware"
	"notesphere/models"

	"github.com/gofiber/fiber/v2"
)

func CreateGroup(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateGroupRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return respondError(c, err)
		}

		group, err := a.Groups.Create(middleware.GetUserID(c), req.Name, req.Description)
		if err != nil {
			return respondError(c, err)
		}

		return created(c, "Group created successfully!", fiber.Map{"group": group})
	}
}

func JoinGroup(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		groupID, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "Group ID is required")
		}

		if err := a.Groups.Join(middleware.GetUserID(c), int64(groupID)); err != nil {
			return respondError(c, err)
		}

		return success(c, "You've joined the group!", nil)
	}
}

func LeaveGroup(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		groupID, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "Group ID is required")
		}

		if err := a.Groups.Leave(middleware.GetUserID(c), int64(groupID)); err != nil {
			return respondError(c, err)
		}

		return success(c, "You've left the group.", nil)
	}
}

func DeleteGroup(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		groupID, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "Group ID is required")
		}

		if err := a.Groups.Delete(middleware.GetUserID(c), int64(groupID)); err != nil {
			return respondError(c, err)
		}

		return success(c, "Group deleted successfully!", nil)
	}
}

func MyGroups(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		groups, err := a.Groups.MyGroups(middleware.GetUserID(c))
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "", fiber.Map{"groups": groups})
	}
}

func AvailableGroups(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		groups, err := a.Groups.AvailableGroups(middleware.GetUserID(c))
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "", fiber.Map{"groups": groups})
	}
}

func PostMessage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		groupID, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "Group ID is required")
		}

		var req models.PostMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return respondError(c, err)
		}

		msg, err := a.Groups.PostMessage(middleware.GetUserID(c), int64(groupID), req.Content)
		if err != nil {
			return respondError(c, err)
		}

		return created(c, "", fiber.Map{"message_sent": msg})
	}
}

func GroupMessages(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		groupID, err := c.ParamsInt("id")
		if err != nil {
			return badRequest(c, "Group ID is required")
		}

		messages, err := a.Groups.Messages(middleware.GetUserID(c), int64(groupID))
		if err != nil {
			return respondError(c, err)
		}

		return success(c, "", fiber.Map{"messages": messages})
	}
}
